package swiftpkg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pinCrates regenerates the crate lockfile and pins the configured crates to
// their exact versions. A pin whose crate is absent from the lockfile is
// skipped with a log line rather than failing the run.
func (g *Generator) pinCrates(ctx context.Context, lay layout) error {
	cmd := Command{
		Args: []string{"cargo", "generate-lockfile"},
		Dir:  lay.rustDir,
	}
	if err := g.Runner.Run(ctx, cmd); err != nil {
		return err
	}

	lockfile := filepath.Join(lay.rustDir, "Cargo.lock")
	for _, pin := range g.Config.Pins {
		if !cargoLockHasPackage(lockfile, pin.Name) {
			g.logger().Infof("skip: crate %s not present in lockfile", pin.Name)
			continue
		}
		cmd := Command{
			Args: []string{"cargo", "update", "-p", pin.Name, "--precise", pin.Version},
			Dir:  lay.rustDir,
		}
		if err := g.Runner.Run(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// cargoLockHasPackage reports whether the lockfile declares a package with
// the given name. An unreadable lockfile counts as not containing it.
func cargoLockHasPackage(lockfile, name string) bool {
	data, err := os.ReadFile(lockfile)
	if err != nil {
		return false
	}
	needle := fmt.Sprintf("name = %q", name)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == needle {
			return true
		}
	}
	return false
}

// buildMatrix cross-compiles the crate in release mode for every configured
// target, one cargo build per slice, each under the environment derived for
// its SDK.
func (g *Generator) buildMatrix(ctx context.Context, lay layout) error {
	for _, target := range g.Config.Targets {
		env, err := g.buildEnvForSDK(ctx, target.SDK)
		if err != nil {
			return err
		}
		args := []string{"cargo", "build", "--release", "--target", target.Triple}
		if target.Features != "" {
			args = append(args, "--features", target.Features)
		}
		cmd := Command{
			Args: args,
			Dir:  lay.rustDir,
			Env:  env,
		}
		if err := g.Runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("failed to build %s: %w", target.Triple, err)
		}
	}
	return nil
}

// crateLibPath returns the static library cargo emitted for a target triple.
func (g *Generator) crateLibPath(lay layout, triple string) string {
	return filepath.Join(lay.rustDir, "target", triple, "release", g.Config.CrateLib)
}
