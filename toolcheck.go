package swiftpkg

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolRequirement describes an external tool the pipeline invokes.
type ToolRequirement struct {
	// Name is the tool binary name looked up in PATH (e.g., "cargo").
	Name string

	// Purpose is a human-readable description of what the tool is used for.
	// It is included in missing-tool errors.
	Purpose string
}

// RequiredTools returns the tools a run with this configuration will invoke.
// Skipped phases drop their tools from the list, so a --skip-build run can
// be preflighted on a machine without the Apple toolchain.
func (c Config) RequiredTools() []ToolRequirement {
	tools := []ToolRequirement{
		{Name: "git", Purpose: "applies package patches"},
	}
	if !c.SkipBuild {
		tools = append(tools,
			ToolRequirement{Name: "cargo", Purpose: "builds the Rust crate and the bridge generator"},
			ToolRequirement{Name: "xcrun", Purpose: "locates Apple SDKs and toolchain binaries"},
		)
	}
	if !c.SkipTests {
		tools = append(tools, ToolRequirement{Name: "swift", Purpose: "runs the package test suite"})
	}
	return tools
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies that every listed tool is available before the
// pipeline starts mutating the destination, so a missing toolchain fails the
// run up front instead of mid-build.
//
// # Error Format
//
// Single missing tool:
//
//	swift (runs the package test suite) not found in PATH
//
// Multiple missing tools:
//
//	missing required tools: cargo (builds the Rust crate and the bridge generator), xcrun (locates Apple SDKs and toolchain binaries)
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missing []string
	for _, req := range requirements {
		if CheckToolAvailable(req.Name) == nil {
			continue
		}
		if req.Purpose != "" {
			missing = append(missing, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
		} else {
			missing = append(missing, req.Name)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	if len(missing) == 1 {
		return fmt.Errorf("%s not found in PATH", missing[0])
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}
