package swiftpkg

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// releaseProfileRe captures the body of the [profile.release] section up to
// the next section header or the end of the manifest.
var releaseProfileRe = regexp.MustCompile(`(?s)\[profile\.release\](.*?)(\n\[|\z)`)

func (g *Generator) crateManifestPath(dest string) string {
	return filepath.Join(g.Config.layoutFor(dest).rustDir, "Cargo.toml")
}

// normalizeCrateManifest applies the configured literal rewrites to the
// crate manifest. Every occurrence of each old string is replaced. The file
// is rewritten only when a replacement actually changed it.
func (g *Generator) normalizeCrateManifest(dest string) error {
	path := g.crateManifestPath(dest)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("missing crate manifest at %s", path)
	}
	text := string(data)

	updated := text
	for _, r := range g.Config.ManifestRewrites {
		updated = strings.ReplaceAll(updated, r.Old, r.New)
	}
	if updated == text {
		return nil
	}
	return os.WriteFile(path, []byte(updated), 0o644)
}

// configureReleaseProfile enforces the configured settings inside the
// manifest's [profile.release] section, creating the section at the end of
// the file when absent. Present keys are replaced in place, missing keys
// appended. Running it on its own output changes nothing.
func (g *Generator) configureReleaseProfile(dest string) error {
	path := g.crateManifestPath(dest)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("missing crate manifest at %s", path)
	}
	text := string(data)

	var prefix, body, suffix string
	if m := releaseProfileRe.FindStringSubmatchIndex(text); m != nil {
		prefix = text[:m[2]]
		body = text[m[2]:m[3]]
		suffix = text[m[3]:]
	} else {
		prefix = strings.TrimRight(text, " \t\r\n") + "\n\n[profile.release]"
		suffix = ""
	}

	updated := body
	for _, setting := range g.Config.ReleaseProfile {
		updated = ensureSetting(updated, setting.Key, setting.Value)
	}

	result := prefix + updated + suffix
	if result == text {
		return nil
	}
	return os.WriteFile(path, []byte(result), 0o644)
}

// ensureSetting replaces the first `key = ...` line in block, or appends one
// when the key is not present.
func ensureSetting(block, key, value string) string {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `\s*=.*$`)
	line := key + " = " + value
	if loc := re.FindStringIndex(block); loc != nil {
		return block[:loc[0]] + line + block[loc[1]:]
	}
	return strings.TrimRight(block, " \t\r\n") + "\n" + line + "\n"
}
