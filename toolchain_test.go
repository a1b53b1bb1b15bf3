package swiftpkg

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// envValue returns the value of name in env, honoring the os/exec rule that
// the last entry wins when a name repeats.
func envValue(env []string, name string) string {
	value := ""
	for _, entry := range env {
		if strings.HasPrefix(entry, name+"=") {
			value = strings.TrimPrefix(entry, name+"=")
		}
	}
	return value
}

func TestBuildEnvForSDKDerivesSDKEnvironment(t *testing.T) {
	g, runner := newTestGenerator(DefaultConfig())
	runner.outputs = map[string]string{
		"xcrun --sdk iphoneos --show-sdk-path": "/sdks/iPhoneOS.sdk",
		"xcrun --sdk iphoneos -f clang":        "/toolchain/clang",
		"xcrun --sdk iphoneos -f clang++":      "/toolchain/clang++",
		"xcrun --sdk iphoneos -f ar":           "/toolchain/ar",
		"xcrun --sdk iphoneos -f ranlib":       "/toolchain/ranlib",
	}
	t.Setenv("RUSTFLAGS", "-C target-cpu=native")

	env, err := g.buildEnvForSDK(context.Background(), "iphoneos")
	if err != nil {
		t.Fatalf("buildEnvForSDK returned error: %v", err)
	}

	checks := []struct{ name, want string }{
		{"SDKROOT", "/sdks/iPhoneOS.sdk"},
		{"CC", "/toolchain/clang"},
		{"CXX", "/toolchain/clang++"},
		{"AR", "/toolchain/ar"},
		{"RANLIB", "/toolchain/ranlib"},
		{"IPHONEOS_DEPLOYMENT_TARGET", "15.0"},
		{"RUSTFLAGS", "-C target-cpu=native -C link-arg=-dead_strip"},
	}
	for _, c := range checks {
		if got := envValue(env, c.name); got != c.want {
			t.Errorf("expected %s=%q, got %q", c.name, c.want, got)
		}
	}

	want := []string{
		"xcrun --sdk iphoneos --show-sdk-path",
		"xcrun --sdk iphoneos -f clang",
		"xcrun --sdk iphoneos -f clang++",
		"xcrun --sdk iphoneos -f ar",
		"xcrun --sdk iphoneos -f ranlib",
	}
	if diff := cmp.Diff(want, runner.argvLines()); diff != "" {
		t.Errorf("unexpected lookups (-want +got):\n%s", diff)
	}
}

func TestBuildEnvForSDKOverridesInheritedValues(t *testing.T) {
	g, runner := newTestGenerator(DefaultConfig())
	runner.outputs = map[string]string{
		"xcrun --sdk macosx --show-sdk-path": "/sdks/MacOSX.sdk",
	}
	t.Setenv("SDKROOT", "/sdks/stale.sdk")

	env, err := g.buildEnvForSDK(context.Background(), "macosx")
	if err != nil {
		t.Fatalf("buildEnvForSDK returned error: %v", err)
	}

	if got := envValue(env, "SDKROOT"); got != "/sdks/MacOSX.sdk" {
		t.Errorf("expected derived SDKROOT to win over the inherited one, got %q", got)
	}
	if got := envValue(env, "MACOSX_DEPLOYMENT_TARGET"); got != "14.0" {
		t.Errorf("expected macOS deployment target 14.0, got %q", got)
	}
}

func TestBuildEnvForSDKHonorsConfiguredMinVersions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IOSMinVersion = "16.0"
	g, _ := newTestGenerator(cfg)

	env, err := g.buildEnvForSDK(context.Background(), "iphoneos")
	if err != nil {
		t.Fatalf("buildEnvForSDK returned error: %v", err)
	}
	if got := envValue(env, "IPHONEOS_DEPLOYMENT_TARGET"); got != "16.0" {
		t.Errorf("expected overridden iOS deployment target, got %q", got)
	}

	env, err = g.buildEnvForSDK(context.Background(), "macosx")
	if err != nil {
		t.Fatalf("buildEnvForSDK returned error: %v", err)
	}
	if got := envValue(env, "MACOSX_DEPLOYMENT_TARGET"); got != "14.0" {
		t.Errorf("expected default macOS deployment target, got %q", got)
	}
}

func TestBuildEnvForSDKAppendsDeadStripToEmptyRustflags(t *testing.T) {
	g, _ := newTestGenerator(DefaultConfig())
	t.Setenv("RUSTFLAGS", "")

	env, err := g.buildEnvForSDK(context.Background(), "iphonesimulator")
	if err != nil {
		t.Fatalf("buildEnvForSDK returned error: %v", err)
	}

	if got := envValue(env, "RUSTFLAGS"); got != "-C link-arg=-dead_strip" {
		t.Errorf("expected bare dead-strip flag, got %q", got)
	}
	// The simulator belongs to the iOS family.
	if got := envValue(env, "IPHONEOS_DEPLOYMENT_TARGET"); got != "15.0" {
		t.Errorf("expected iOS deployment target for the simulator, got %q", got)
	}
}
