package swiftpkg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// archLibrary is the merged static library built for one matrix slice.
type archLibrary struct {
	Target Target
	Path   string
}

// buildArchLibraries compiles the adapter and bridge sources for every
// target and merges them with the crate's static library into a single
// archive per slice under Build/libs/obj-<sdk>-<arch>/.
func (g *Generator) buildArchLibraries(ctx context.Context, lay layout) ([]archLibrary, error) {
	cfg := g.Config
	adapterSrc := filepath.Join(lay.coreSrc, cfg.AdapterName+".mm")
	bridgeSrc := g.bridgeSourcePath(lay)

	var libs []archLibrary
	for _, target := range cfg.Targets {
		objDir := filepath.Join(lay.libsDir, fmt.Sprintf("obj-%s-%s", target.SDK, target.Arch))
		if err := os.MkdirAll(objDir, 0o755); err != nil {
			return nil, err
		}

		adapterObj := filepath.Join(objDir, cfg.AdapterName+".o")
		bridgeObj := filepath.Join(objDir, objectName(cfg.BridgeSource))

		// The adapter needs its own headers plus the generated ones; the
		// bridge source only needs the generated headers.
		if err := g.compileSource(ctx, adapterSrc, adapterObj, target, true,
			[]string{lay.coreInclude, lay.includeDir}); err != nil {
			return nil, err
		}
		if err := g.compileSource(ctx, bridgeSrc, bridgeObj, target, false,
			[]string{lay.includeDir}); err != nil {
			return nil, err
		}

		lib := filepath.Join(objDir, cfg.LibraryName())
		objects := []string{adapterObj, bridgeObj, g.crateLibPath(lay, target.Triple)}
		if err := g.libtoolStatic(ctx, lib, objects); err != nil {
			return nil, err
		}
		libs = append(libs, archLibrary{Target: target, Path: lib})
	}
	return libs, nil
}

// compileSource compiles a single C++ or ObjC++ translation unit for one
// slice. objcARC enables automatic reference counting and is set for the
// ObjC++ adapter only.
func (g *Generator) compileSource(ctx context.Context, source, output string, target Target, objcARC bool, includeDirs []string) error {
	sdkRoot, err := g.sdkPath(ctx, target.SDK)
	if err != nil {
		return err
	}
	args := []string{"xcrun", "--sdk", target.SDK, "clang++", "-c", source, "-o", output, "-std=c++17"}
	if objcARC {
		args = append(args, "-fobjc-arc")
	}
	args = append(args, "-arch", target.Arch, "-isysroot", sdkRoot)
	args = append(args, minVersionFlag(target.SDK, g.Config.minVersionFor(target.SDK)))
	for _, dir := range includeDirs {
		args = append(args, "-I", dir)
	}
	return g.Runner.Run(ctx, Command{Args: args})
}

// libtoolStatic merges object files and static archives into one archive.
func (g *Generator) libtoolStatic(ctx context.Context, output string, objects []string) error {
	args := append([]string{"xcrun", "libtool", "-static", "-o", output}, objects...)
	return g.Runner.Run(ctx, Command{Args: args})
}

// objectName maps a source file name to its object file name.
func objectName(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".o"
}
