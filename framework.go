package swiftpkg

import (
	"context"
	"os"
	"path/filepath"
)

// universalLibrary is a fat static library covering every architecture
// built for one platform.
type universalLibrary struct {
	Platform string
	Path     string
}

// mergeUniversal merges the per-architecture archives into one fat library
// per platform under Build/libs/<platform>/. Slices group by platform slug
// in matrix order, so the default matrix yields ios, ios-sim and macos
// libraries, in that order.
func (g *Generator) mergeUniversal(ctx context.Context, lay layout, libs []archLibrary) ([]universalLibrary, error) {
	groups := make(map[string][]string)
	var order []string
	for _, lib := range libs {
		slug := platformSlug(lib.Target.SDK)
		if _, ok := groups[slug]; !ok {
			order = append(order, slug)
		}
		groups[slug] = append(groups[slug], lib.Path)
	}

	var merged []universalLibrary
	for _, slug := range order {
		output := filepath.Join(lay.libsDir, slug, g.Config.LibraryName())
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return nil, err
		}
		if err := g.lipoCreate(ctx, output, groups[slug]); err != nil {
			return nil, err
		}
		merged = append(merged, universalLibrary{Platform: slug, Path: output})
	}
	return merged, nil
}

// lipoCreate merges single-architecture archives into one fat archive.
func (g *Generator) lipoCreate(ctx context.Context, output string, inputs []string) error {
	args := append([]string{"xcrun", "lipo", "-create"}, inputs...)
	args = append(args, "-output", output)
	return g.Runner.Run(ctx, Command{Args: args})
}

// packageBundle assembles the XCFramework from the universal libraries and
// the shared header directory, replacing any bundle left by a previous run.
// The Build scratch directory is removed once the bundle exists.
func (g *Generator) packageBundle(ctx context.Context, lay layout, merged []universalLibrary) error {
	bundle := filepath.Join(lay.binaryDir, g.Config.FrameworkName())
	if err := os.RemoveAll(bundle); err != nil {
		return err
	}
	if err := os.MkdirAll(lay.binaryDir, 0o755); err != nil {
		return err
	}

	args := []string{"xcodebuild", "-create-xcframework"}
	for _, lib := range merged {
		args = append(args, "-library", lib.Path, "-headers", lay.includeDir)
	}
	args = append(args, "-output", bundle)
	if err := g.Runner.Run(ctx, Command{Args: args}); err != nil {
		return err
	}
	return os.RemoveAll(lay.buildDir)
}
