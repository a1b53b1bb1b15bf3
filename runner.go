package swiftpkg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// Command describes a single external tool invocation.
//
// Args is the full argv; Args[0] is the program name resolved through PATH.
// Dir is the working directory, empty meaning the current directory. Env is
// the complete environment for the process; nil inherits the generator's own
// environment.
type Command struct {
	Args []string
	Dir  string
	Env  []string
}

// Runner executes external commands on behalf of the pipeline.
//
// Every toolchain interaction (git, cargo, xcrun, clang, libtool, lipo,
// xcodebuild, swift) goes through this interface, so the whole pipeline can
// be rehearsed against a fake without spawning a single process.
//
// # Implementations
//
//   - ExecRunner: the real thing, backed by os/exec
//   - DryRunner: logs each command and executes nothing
//
// Run streams the command's output to the runner's stdout/stderr. Output
// captures and returns the command's trimmed stdout instead, for toolchain
// queries whose result feeds later commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner runs commands with os/exec. Each invocation is logged before it
// starts so a failing run shows exactly which command died.
type ExecRunner struct {
	Log    log.Interface // command log; defaults to log.Log
	Stdout io.Writer     // streamed stdout; defaults to os.Stdout
	Stderr io.Writer     // streamed stderr; defaults to os.Stderr
}

// Run executes the command, streaming stdout and stderr. The returned error
// wraps the underlying *exec.ExitError so callers can recover the tool's
// exit code with errors.As.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd, err := r.command(ctx, c)
	if err != nil {
		return err
	}
	cmd.Stdout = r.stdout()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", c.Args[0], err)
	}
	return nil
}

// Output executes the command and returns its stdout with surrounding
// whitespace trimmed. Stderr streams through so tool diagnostics stay
// visible.
func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	cmd, err := r.command(ctx, c)
	if err != nil {
		return "", err
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *ExecRunner) command(ctx context.Context, c Command) (*exec.Cmd, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	r.logger().Infof("run: %s", formatArgv(c.Args))
	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stderr = r.stderr()
	return cmd, nil
}

func (r *ExecRunner) logger() log.Interface {
	if r.Log != nil {
		return r.Log
	}
	return log.Log
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// DryRunner logs each command without executing it. Toolchain queries return
// empty output, so a dry run shows the command sequence rather than real
// toolchain paths.
type DryRunner struct {
	Log log.Interface // defaults to log.Log
}

func (r *DryRunner) Run(ctx context.Context, c Command) error {
	if len(c.Args) == 0 {
		return fmt.Errorf("empty command")
	}
	r.logger().Infof("run: %s", formatArgv(c.Args))
	return nil
}

func (r *DryRunner) Output(ctx context.Context, c Command) (string, error) {
	if len(c.Args) == 0 {
		return "", fmt.Errorf("empty command")
	}
	r.logger().Infof("run: %s", formatArgv(c.Args))
	return "", nil
}

func (r *DryRunner) logger() log.Interface {
	if r.Log != nil {
		return r.Log
	}
	return log.Log
}
