package swiftpkg

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigMatrix(t *testing.T) {
	cfg := DefaultConfig()

	if got := len(cfg.Targets); got != 5 {
		t.Fatalf("expected 5 matrix slices, got %d", got)
	}
	first := Target{Triple: "aarch64-apple-ios", Features: "ios", SDK: "iphoneos", Arch: "arm64"}
	if diff := cmp.Diff(first, cfg.Targets[0]); diff != "" {
		t.Errorf("unexpected first slice (-want +got):\n%s", diff)
	}
	if got := cfg.LibraryName(); got != "libAdblockCore.a" {
		t.Errorf("LibraryName = %q", got)
	}
	if got := cfg.FrameworkName(); got != "AdblockCore.xcframework" {
		t.Errorf("FrameworkName = %q", got)
	}
	if got := cfg.minVersionFor("iphonesimulator"); got != "15.0" {
		t.Errorf("expected the iOS deployment target for the simulator, got %q", got)
	}
	if got := cfg.minVersionFor("macosx"); got != "14.0" {
		t.Errorf("expected the macOS deployment target, got %q", got)
	}
}

func TestInputPathResolvesAgainstRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootDir = filepath.Join(t.TempDir(), "checkout")

	rel := filepath.Join("spm", "patches")
	if got := cfg.inputPath(rel); got != filepath.Join(cfg.RootDir, rel) {
		t.Errorf("expected relative input under the root, got %q", got)
	}

	abs := filepath.Join(t.TempDir(), "adapter.h")
	if got := cfg.inputPath(abs); got != abs {
		t.Errorf("expected absolute input unchanged, got %q", got)
	}

	cfg.RootDir = ""
	if got := cfg.inputPath(rel); got != rel {
		t.Errorf("expected relative input unchanged without a root, got %q", got)
	}
}

func TestLoadConfigAppliesOverridesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "makespm.yml")
	writeFile(t, path, strings.Join([]string{
		"dest_name: swift-example",
		"core_name: ExampleCore",
		`ios_min_version: "16.0"`,
		"skip_tests: true",
		"targets:",
		"  - triple: aarch64-apple-ios",
		"    features: ios",
		"    sdk: iphoneos",
		"    arch: arm64",
		"",
	}, "\n"))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.DestName != "swift-example" {
		t.Errorf("DestName = %q", cfg.DestName)
	}
	if cfg.CoreName != "ExampleCore" {
		t.Errorf("CoreName = %q", cfg.CoreName)
	}
	if cfg.IOSMinVersion != "16.0" {
		t.Errorf("IOSMinVersion = %q", cfg.IOSMinVersion)
	}
	if !cfg.SkipTests {
		t.Error("expected SkipTests set")
	}
	wantTargets := []Target{
		{Triple: "aarch64-apple-ios", Features: "ios", SDK: "iphoneos", Arch: "arm64"},
	}
	if diff := cmp.Diff(wantTargets, cfg.Targets); diff != "" {
		t.Errorf("unexpected targets (-want +got):\n%s", diff)
	}

	// Keys absent from the file keep their defaults.
	defaults := DefaultConfig()
	if cfg.PatchesDir != defaults.PatchesDir {
		t.Errorf("PatchesDir = %q, expected default %q", cfg.PatchesDir, defaults.PatchesDir)
	}
	if cfg.MacOSMinVersion != defaults.MacOSMinVersion {
		t.Errorf("MacOSMinVersion = %q, expected default %q", cfg.MacOSMinVersion, defaults.MacOSMinVersion)
	}
	if diff := cmp.Diff(defaults.Pins, cfg.Pins); diff != "" {
		t.Errorf("unexpected pins (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaults.ManifestRewrites, cfg.ManifestRewrites); diff != "" {
		t.Errorf("unexpected rewrites (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	writeFile(t, path, "dest_name: [unclosed\n")

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("expected parse error, got: %v", err)
	}
}
