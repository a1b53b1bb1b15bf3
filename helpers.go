package swiftpkg

import "strings"

// formatArgv renders an argv slice as a single shell-like line for logging.
func formatArgv(args []string) string {
	return strings.Join(args, " ")
}

// isIOSSDK reports whether the SDK belongs to the iOS family (device or
// simulator) rather than macOS.
func isIOSSDK(sdk string) bool {
	return strings.HasPrefix(sdk, "iphone")
}

// platformSlug maps an Apple SDK identifier to the short platform name used
// for universal library directories. Unknown SDKs map to themselves so that
// grouping stays stable for custom matrices.
func platformSlug(sdk string) string {
	switch sdk {
	case "iphoneos":
		return "ios"
	case "iphonesimulator":
		return "ios-sim"
	case "macosx":
		return "macos"
	default:
		return sdk
	}
}

// minVersionFlag returns the clang deployment-target flag for an SDK. The
// simulator needs its own spelling; every other iOS SDK uses the device flag.
func minVersionFlag(sdk, version string) string {
	switch {
	case sdk == "iphonesimulator":
		return "-mios-simulator-version-min=" + version
	case isIOSSDK(sdk):
		return "-miphoneos-version-min=" + version
	default:
		return "-mmacosx-version-min=" + version
	}
}

// deploymentTargetVar returns the environment variable cargo and the Rust
// toolchain read for the minimum deployment version of an SDK family.
func deploymentTargetVar(sdk string) string {
	if isIOSSDK(sdk) {
		return "IPHONEOS_DEPLOYMENT_TARGET"
	}
	return "MACOSX_DEPLOYMENT_TARGET"
}
