// Command makespm regenerates the swift-adblock Swift package from a source
// checkout.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	swiftpkg "github.com/contriboss/swift-package-go"
)

// defaultConfigName is looked up under --root when --config is not given.
const defaultConfigName = ".makespm.yml"

var (
	rootDir    string
	configPath string
	skipBuild  bool
	skipTests  bool
	dryRun     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "makespm <destination>",
	Short: "Regenerate the swift-adblock Swift package",
	Long: `makespm rebuilds the swift-adblock package in place: it resets the
destination working tree, copies in the templates, the ObjC++ adapter and
the Rust crate, applies the patch series, cross-compiles the crate for every
supported Apple target and packages the result as an XCFramework under
Binary/.

The destination must be an existing directory named swift-adblock.
Everything in it except .git and .gitignore is regenerated.

Example:
  makespm --root ~/src/checkout ~/src/swift-adblock`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	rootCmd.Flags().StringVar(&rootDir, "root", ".", "source checkout the generator reads from")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML file overriding the built-in configuration")
	rootCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "stop after patching and manifest normalization")
	rootCmd.Flags().BoolVar(&skipTests, "skip-tests", false, "do not run swift test after packaging")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log external commands instead of executing them")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dest, err := swiftpkg.ResolveDestination(args[0], cfg.DestName)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := swiftpkg.CheckRequiredTools(cfg.RequiredTools()); err != nil {
			return err
		}
	}

	gen := swiftpkg.NewGenerator(cfg)
	if dryRun {
		gen.Runner = &swiftpkg.DryRunner{}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return gen.Generate(ctx, dest)
}

// loadConfig assembles the run configuration: built-in defaults, then the
// config file, then command-line flags.
func loadConfig(cmd *cobra.Command) (swiftpkg.Config, error) {
	path := configPath
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return swiftpkg.Config{}, fmt.Errorf("config file not found: %s", path)
		}
	} else {
		path = filepath.Join(rootDir, defaultConfigName)
	}

	cfg, err := swiftpkg.LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("root") || cfg.RootDir == "" {
		cfg.RootDir = rootDir
	}
	abs, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return cfg, err
	}
	cfg.RootDir = abs

	cfg.SkipBuild = cfg.SkipBuild || skipBuild
	cfg.SkipTests = cfg.SkipTests || skipTests
	return cfg, nil
}

func main() {
	log.SetHandler(cli.New(os.Stderr))
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode propagates a failing tool's exit status when one is available;
// every other failure exits 1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
