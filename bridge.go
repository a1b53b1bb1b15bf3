package swiftpkg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// generateBridge produces the shared header directory and the C++
// translation unit for the crate's cxx bindings, running the vendored bridge
// generator through cargo from the checkout root. It populates:
//
//	Build/include/rust/cxx.h             cxx runtime header
//	Build/include/<bridge>/lib.rs.h      bindings declared by the crate
//	Build/<bridge source>                bindings implementation
//	Build/include/module.modulemap       Clang module for the public header
//	Build/include/<AdapterName>.h        public adapter header
//
// Includes inside the generated files reference "rust/cxx.h", so compiles
// must put Build/include on their include path.
func (g *Generator) generateBridge(ctx context.Context, lay layout) error {
	manifest := g.Config.inputPath(g.Config.BridgeManifest)
	if _, err := os.Stat(manifest); err != nil {
		return fmt.Errorf("missing bridge generator at %s", manifest)
	}

	for _, dir := range []string{lay.includeDir, lay.rustInclude, lay.bridgeInclude} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	bindings := filepath.Join(lay.rustDir, "src", "lib.rs")

	if err := g.runBridgeGen(ctx, manifest,
		"--header", "-o", filepath.Join(lay.rustInclude, "cxx.h")); err != nil {
		return err
	}
	if err := g.runBridgeGen(ctx, manifest,
		bindings, "--header", "-i", "rust/cxx.h", "-o", filepath.Join(lay.bridgeInclude, "lib.rs.h")); err != nil {
		return err
	}
	if err := g.runBridgeGen(ctx, manifest,
		bindings, "-i", "rust/cxx.h", "-o", g.bridgeSourcePath(lay)); err != nil {
		return err
	}

	if err := g.writeModuleMap(lay); err != nil {
		return err
	}
	header := g.Config.AdapterName + ".h"
	return copyFile(filepath.Join(lay.coreInclude, header), filepath.Join(lay.includeDir, header))
}

// runBridgeGen invokes the vendored bridge generator with the given
// arguments via cargo run.
func (g *Generator) runBridgeGen(ctx context.Context, manifest string, args ...string) error {
	argv := append([]string{"cargo", "run", "--quiet", "--manifest-path", manifest, "--"}, args...)
	return g.Runner.Run(ctx, Command{Args: argv, Dir: g.Config.RootDir})
}

func (g *Generator) bridgeSourcePath(lay layout) string {
	return filepath.Join(lay.buildDir, g.Config.BridgeSource)
}

// writeModuleMap declares the Clang module that exposes the public adapter
// header to Swift.
func (g *Generator) writeModuleMap(lay layout) error {
	content := fmt.Sprintf("module %s {\n  header %q\n  export *\n  requires objc\n}\n",
		g.Config.CoreName, g.Config.AdapterName+".h")
	return os.WriteFile(filepath.Join(lay.includeDir, "module.modulemap"), []byte(content), 0o644)
}
