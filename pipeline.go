package swiftpkg

import (
	"context"
	"os"

	"github.com/apex/log"
)

// Generator orchestrates a package generation run.
//
// Every external command goes through Runner and every diagnostic through
// Log, so both can be substituted in tests. Construct with NewGenerator for
// the real runner and logger.
type Generator struct {
	Config Config
	Runner Runner
	Log    log.Interface
}

// NewGenerator returns a Generator backed by the real command runner and the
// package-level logger.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		Config: cfg,
		Runner: &ExecRunner{},
		Log:    log.Log,
	}
}

// stage is one sequential step of the pipeline.
type stage struct {
	name string
	run  func(context.Context) error
}

// Generate runs the full pipeline against the destination path:
//
//  1. Validate the destination name and directory
//  2. Reset the workspace, keeping the configured entries
//  3. Copy templates, the adapter pair and the crate
//  4. Apply patches in order
//  5. Normalize the crate manifest and its release profile
//  6. Build and package the XCFramework (unless SkipBuild)
//  7. Run the generated package's tests (unless SkipTests)
//
// Stages run strictly in order and the first failure aborts the run.
// Artifacts already produced by earlier stages are left in place for
// inspection.
func (g *Generator) Generate(ctx context.Context, destPath string) error {
	dest, err := ResolveDestination(destPath, g.Config.DestName)
	if err != nil {
		return err
	}

	stages := []stage{
		{"clean destination", func(context.Context) error { return g.cleanDestination(dest) }},
		{"copy templates", func(context.Context) error { return g.copyTemplates(dest) }},
		{"copy bridge sources", func(context.Context) error { return g.copySources(dest) }},
		{"apply patches", func(ctx context.Context) error { return g.applyPatches(ctx, dest) }},
		{"normalize crate manifest", func(context.Context) error { return g.normalizeCrateManifest(dest) }},
		{"configure release profile", func(context.Context) error { return g.configureReleaseProfile(dest) }},
	}
	if !g.Config.SkipBuild {
		stages = append(stages, stage{"build xcframework", func(ctx context.Context) error {
			return g.buildFramework(ctx, dest)
		}})
	}
	if !g.Config.SkipTests {
		stages = append(stages, stage{"run package tests", func(ctx context.Context) error {
			return g.runTests(ctx, dest)
		}})
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.logger().Debugf("stage: %s", s.name)
		if err := s.run(ctx); err != nil {
			return err
		}
	}

	g.logger().Info("package generation complete")
	return nil
}

// buildFramework runs the binary production chain inside a fresh Build
// scratch directory: lockfile pinning, the cargo build matrix, bridge
// generation, per-architecture linking, universal merging and packaging.
func (g *Generator) buildFramework(ctx context.Context, dest string) error {
	lay := g.Config.layoutFor(dest)

	if err := os.RemoveAll(lay.buildDir); err != nil {
		return err
	}
	if err := os.MkdirAll(lay.buildDir, 0o755); err != nil {
		return err
	}

	if err := g.pinCrates(ctx, lay); err != nil {
		return err
	}
	if err := g.buildMatrix(ctx, lay); err != nil {
		return err
	}
	if err := g.generateBridge(ctx, lay); err != nil {
		return err
	}
	libs, err := g.buildArchLibraries(ctx, lay)
	if err != nil {
		return err
	}
	merged, err := g.mergeUniversal(ctx, lay, libs)
	if err != nil {
		return err
	}
	return g.packageBundle(ctx, lay, merged)
}

// runTests runs the generated package's own test suite.
func (g *Generator) runTests(ctx context.Context, dest string) error {
	return g.Runner.Run(ctx, Command{Args: []string{"swift", "test"}, Dir: dest})
}

func (g *Generator) logger() log.Interface {
	if g.Log != nil {
		return g.Log
	}
	return log.Log
}
