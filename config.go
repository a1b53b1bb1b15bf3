package swiftpkg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default deployment targets for the two platform families.
const (
	defaultIOSMinVersion   = "15.0"
	defaultMacOSMinVersion = "14.0"
)

// DefaultConfig returns the configuration for a standard generation run.
//
// The defaults encode the expected layout of the source checkout the
// generator runs against and the complete five-slice cross-compilation
// matrix: device arm64, simulator arm64 and x86_64, and macOS arm64 and
// x86_64. Every field can be overridden from a YAML file via LoadConfig.
func DefaultConfig() Config {
	return Config{
		TemplatesDir:   "spm/templates/swift-adblock",
		PatchesDir:     "spm/patches",
		BridgeManifest: "vendor/cxxbridge-cmd/Cargo.toml",
		AdapterHeader:  "bridge/adblock_engine.h",
		AdapterSource:  "bridge/adblock_engine.mm",
		CrateDir:       "engine/adblock/rs",

		DestName:    "swift-adblock",
		KeepEntries: []string{".git", ".gitignore"},

		CoreName:    "AdblockCore",
		RustName:    "AdblockRust",
		AdapterName: "AdblockEngine",

		CrateLib:        "libadblock_cxx.a",
		BridgeSource:    "adblock-cxx.cc",
		BridgeHeaderDir: "adblock",
		Pins: []CratePin{
			{Name: "rmp", Version: "0.8.8"},
		},
		ManifestRewrites: []Rewrite{
			// The unsync regex cache is incompatible with the multithreaded
			// engine hosts, and the crate must emit a linkable archive.
			{
				Old: `single_thread_optimizations = ["adblock/unsync-regex-caching"]`,
				New: `single_thread_optimizations = []`,
			},
			{
				Old: `crate-type = ["rlib"]`,
				New: `crate-type = ["rlib", "staticlib"]`,
			},
		},
		ReleaseProfile: []ProfileSetting{
			{Key: "lto", Value: `"thin"`},
			{Key: "codegen-units", Value: "1"},
		},

		Targets: []Target{
			{Triple: "aarch64-apple-ios", Features: "ios", SDK: "iphoneos", Arch: "arm64"},
			{Triple: "aarch64-apple-ios-sim", Features: "ios", SDK: "iphonesimulator", Arch: "arm64"},
			{Triple: "x86_64-apple-ios", Features: "ios", SDK: "iphonesimulator", Arch: "x86_64"},
			{Triple: "aarch64-apple-darwin", Features: "ios", SDK: "macosx", Arch: "arm64"},
			{Triple: "x86_64-apple-darwin", Features: "ios", SDK: "macosx", Arch: "x86_64"},
		},
		IOSMinVersion:   defaultIOSMinVersion,
		MacOSMinVersion: defaultMacOSMinVersion,
	}
}

// LoadConfig reads a YAML configuration file and applies it on top of
// DefaultConfig. Keys absent from the file keep their default values. A
// missing file is not an error; the defaults are returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
