package swiftpkg

import (
	"context"
	"os"
	"strings"
)

// deadStripFlag drops unreferenced symbols from the linked archives.
const deadStripFlag = "-C link-arg=-dead_strip"

// sdkPath returns the filesystem path of an Apple SDK.
func (g *Generator) sdkPath(ctx context.Context, sdk string) (string, error) {
	return g.Runner.Output(ctx, Command{
		Args: []string{"xcrun", "--sdk", sdk, "--show-sdk-path"},
	})
}

// findTool locates a toolchain binary for an SDK.
func (g *Generator) findTool(ctx context.Context, sdk, tool string) (string, error) {
	return g.Runner.Output(ctx, Command{
		Args: []string{"xcrun", "--sdk", sdk, "-f", tool},
	})
}

// buildEnvForSDK derives the environment for cargo builds targeting an SDK:
// SDKROOT, the C toolchain variables, the deployment target of the SDK
// family, and RUSTFLAGS extended with the dead-strip link flag. The result
// extends the process environment; os/exec keeps the last entry when names
// repeat, so the derived values win over inherited ones.
func (g *Generator) buildEnvForSDK(ctx context.Context, sdk string) ([]string, error) {
	sdkRoot, err := g.sdkPath(ctx, sdk)
	if err != nil {
		return nil, err
	}

	env := os.Environ()
	env = append(env, "SDKROOT="+sdkRoot)

	tools := []struct{ name, tool string }{
		{"CC", "clang"},
		{"CXX", "clang++"},
		{"AR", "ar"},
		{"RANLIB", "ranlib"},
	}
	for _, t := range tools {
		path, err := g.findTool(ctx, sdk, t.tool)
		if err != nil {
			return nil, err
		}
		env = append(env, t.name+"="+path)
	}

	env = append(env, deploymentTargetVar(sdk)+"="+g.Config.minVersionFor(sdk))

	rustFlags := strings.TrimSpace(os.Getenv("RUSTFLAGS") + " " + deadStripFlag)
	env = append(env, "RUSTFLAGS="+rustFlags)
	return env, nil
}
