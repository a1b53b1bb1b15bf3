// Package swiftpkg assembles a distributable Swift package around a Rust
// static library and its ObjC++ adapter.
//
// The generator rebuilds a destination checkout from scratch on every run:
// it resets the working tree, copies in the package templates, the adapter
// pair and the Rust crate, applies the maintained patch series, normalizes
// the crate manifest, cross-compiles the crate for every configured Apple
// target, generates the C++ bridge for the crate's cxx bindings, links one
// static library per slice, merges them into per-platform universal
// libraries and packages everything as an XCFramework.
//
// # Basic Usage
//
// Configure a generator and point it at the destination checkout:
//
//	cfg := swiftpkg.DefaultConfig()
//	cfg.RootDir = "/path/to/checkout"
//
//	gen := swiftpkg.NewGenerator(cfg)
//	if err := gen.Generate(ctx, "/path/to/swift-adblock"); err != nil {
//	    log.Fatalf("%v", err)
//	}
//
// # Pipeline
//
// Generate runs a fixed sequence of stages and stops at the first failure:
//
//	validate destination
//	├── clean destination        (keeps .git and .gitignore)
//	├── copy templates
//	├── copy bridge sources      (adapter pair + crate)
//	├── apply patches            (git apply, lexicographic order)
//	├── normalize crate manifest
//	├── configure release profile
//	├── build xcframework        (cargo, clang, libtool, lipo, xcodebuild)
//	└── run package tests        (swift test)
//
// Every external command is dispatched through the Runner interface, so the
// full pipeline can run against a fake runner in tests or a DryRunner on
// machines without the Apple toolchain.
//
// # Requirements
//
// Generation requires git, cargo, xcrun and swift on PATH; see
// Config.RequiredTools. Building real frameworks only works on macOS with
// Xcode installed.
package swiftpkg
