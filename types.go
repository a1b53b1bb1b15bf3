package swiftpkg

import "path/filepath"

// Target describes one slice of the cross-compilation matrix.
//
// Each target maps to exactly one static library in the build tree:
//   - Triple: Rust target triple passed to cargo build --target
//   - Features: cargo feature set enabled for the build
//   - SDK: Apple SDK identifier resolved through xcrun (iphoneos, iphonesimulator, macosx)
//   - Arch: architecture name passed to clang -arch and used in object directory names
//
// The minimum deployment version is not part of the target itself; it is
// derived from the SDK family via Config.minVersionFor, mirroring the two
// platform-wide deployment constants the package is configured with.
type Target struct {
	Triple   string `yaml:"triple"`
	Features string `yaml:"features"`
	SDK      string `yaml:"sdk"`
	Arch     string `yaml:"arch"`
}

// CratePin pins a transitive crate to an exact version after lockfile
// generation. Pins are applied only when the named crate is present in the
// generated Cargo.lock.
type CratePin struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Rewrite is a literal substring replacement applied to the crate manifest.
type Rewrite struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// ProfileSetting is a single key = value line enforced inside the crate
// manifest's [profile.release] section.
type ProfileSetting struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Config contains the full description of a package generation run.
//
// Source checkout inputs locate everything the generator consumes. Relative
// paths resolve against RootDir:
//   - TemplatesDir: static package scaffolding copied into the destination
//   - PatchesDir: directory scanned for *.patch files
//   - BridgeManifest: Cargo.toml of the vendored bridge generator tool
//   - AdapterHeader/AdapterSource: the ObjC++ adapter pair copied into the package
//   - CrateDir: the Rust crate copied wholesale into the package
//
// Destination contract:
//   - DestName: required base name of the destination directory
//   - KeepEntries: top-level entries preserved across workspace resets
//
// Product layout controls the names stamped into the generated package:
//   - CoreName: names the Sources/<CoreName> tree, the Clang module and the
//     final <CoreName>.xcframework bundle
//   - RustName: names the Sources/<RustName> crate directory
//   - AdapterName: public header and source are copied as <AdapterName>.h/.mm
//
// Build behavior:
//   - SkipBuild: stop after patching and manifest normalization
//   - SkipTests: skip the swift test run after packaging
type Config struct {
	// Source checkout inputs
	RootDir        string `yaml:"root_dir"`
	TemplatesDir   string `yaml:"templates_dir"`
	PatchesDir     string `yaml:"patches_dir"`
	BridgeManifest string `yaml:"bridge_manifest"`
	AdapterHeader  string `yaml:"adapter_header"`
	AdapterSource  string `yaml:"adapter_source"`
	CrateDir       string `yaml:"crate_dir"`

	// Destination contract
	DestName    string   `yaml:"dest_name"`
	KeepEntries []string `yaml:"keep_entries"`

	// Product layout
	CoreName    string `yaml:"core_name"`
	RustName    string `yaml:"rust_name"`
	AdapterName string `yaml:"adapter_name"`

	// Crate build
	CrateLib         string           `yaml:"crate_lib"`          // static library emitted by cargo (lib<crate>.a)
	BridgeSource     string           `yaml:"bridge_source"`      // generated C++ translation unit name
	BridgeHeaderDir  string           `yaml:"bridge_header_dir"`  // subdirectory of Build/include for the bridge header
	Pins             []CratePin       `yaml:"pins"`               // exact-version pins applied after lockfile generation
	ManifestRewrites []Rewrite        `yaml:"manifest_rewrites"`  // literal replacements applied to Cargo.toml
	ReleaseProfile   []ProfileSetting `yaml:"release_profile"`    // settings enforced under [profile.release]

	// Cross-compilation matrix
	Targets         []Target `yaml:"targets"`
	IOSMinVersion   string   `yaml:"ios_min_version"`
	MacOSMinVersion string   `yaml:"macos_min_version"`

	// Run behavior
	SkipBuild bool `yaml:"skip_build"`
	SkipTests bool `yaml:"skip_tests"`
}

// LibraryName returns the file name of the merged static library placed in
// each per-architecture and universal output directory.
func (c Config) LibraryName() string {
	return "lib" + c.CoreName + ".a"
}

// FrameworkName returns the file name of the final XCFramework bundle.
func (c Config) FrameworkName() string {
	return c.CoreName + ".xcframework"
}

// inputPath resolves a source checkout input against RootDir. Absolute paths
// are returned unchanged.
func (c Config) inputPath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.RootDir == "" {
		return p
	}
	return filepath.Join(c.RootDir, p)
}

// minVersionFor returns the minimum deployment version for an SDK family.
// Any SDK outside the iphoneos/iphonesimulator pair is treated as macOS.
func (c Config) minVersionFor(sdk string) string {
	if isIOSSDK(sdk) {
		return c.IOSMinVersion
	}
	return c.MacOSMinVersion
}

// layout resolves the fixed directory scheme inside a validated destination.
//
// Everything under Build is scratch space that exists only for the duration
// of a framework build. Binary holds the distributable bundle.
type layout struct {
	dest          string // validated destination root
	coreInclude   string // Sources/<CoreName>/include
	coreSrc       string // Sources/<CoreName>/src
	rustDir       string // Sources/<RustName>
	buildDir      string // Build
	includeDir    string // Build/include, shared header dir for every slice
	rustInclude   string // Build/include/rust
	bridgeInclude string // Build/include/<BridgeHeaderDir>
	libsDir       string // Build/libs
	binaryDir     string // Binary
}

func (c Config) layoutFor(dest string) layout {
	core := filepath.Join(dest, "Sources", c.CoreName)
	build := filepath.Join(dest, "Build")
	include := filepath.Join(build, "include")
	return layout{
		dest:          dest,
		coreInclude:   filepath.Join(core, "include"),
		coreSrc:       filepath.Join(core, "src"),
		rustDir:       filepath.Join(dest, "Sources", c.RustName),
		buildDir:      build,
		includeDir:    include,
		rustInclude:   filepath.Join(include, "rust"),
		bridgeInclude: filepath.Join(include, c.BridgeHeaderDir),
		libsDir:       filepath.Join(build, "libs"),
		binaryDir:     filepath.Join(dest, "Binary"),
	}
}
