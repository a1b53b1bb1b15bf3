package swiftpkg

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// UnsafePathError reports a destination entry that resolves outside the
// destination root, typically a symlink escaping the package tree. The
// workspace reset refuses to delete anything through such an entry.
type UnsafePathError struct {
	Path string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("unsafe path outside destination: %s", e.Path)
}

// ResolveDestination validates the destination contract: the path must name
// an existing directory whose base name matches requiredName. The name is
// checked before any filesystem access, so a mistyped destination is
// rejected without ever being touched. The returned path is absolute.
func ResolveDestination(path, requiredName string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if filepath.Base(abs) != requiredName {
		return "", fmt.Errorf("destination must be a directory named %q, got %s", requiredName, abs)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("destination does not exist or is not a directory: %s", abs)
	}
	return abs, nil
}

// cleanDestination removes every top-level entry of the destination except
// the configured keep list. Entries that resolve outside the destination
// root abort the reset with an UnsafePathError before anything is deleted
// through them.
func (g *Generator) cleanDestination(dest string) error {
	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve destination %s: %w", dest, err)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		return fmt.Errorf("failed to read destination %s: %w", dest, err)
	}

	keep := make(map[string]bool, len(g.Config.KeepEntries))
	for _, name := range g.Config.KeepEntries {
		keep[name] = true
	}

	for _, entry := range entries {
		if keep[entry.Name()] {
			continue
		}
		path := filepath.Join(dest, entry.Name())
		within, err := isWithin(root, path)
		if err != nil {
			return err
		}
		if !within {
			return &UnsafePathError{Path: path}
		}
		if entry.Type()&fs.ModeSymlink != 0 || !entry.IsDir() {
			if err := os.Remove(path); err != nil {
				return err
			}
			continue
		}
		if err := removeTree(path); err != nil {
			return err
		}
	}
	return nil
}

// isWithin reports whether path, after resolving symlinks, is root itself or
// a descendant of root. root must already be canonical.
func isWithin(root, path string) (bool, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return false, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}

// resolvePath canonicalizes a path. EvalSymlinks fails on dangling links, so
// those resolve through the link target against the canonical parent.
func resolvePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	target, linkErr := os.Readlink(path)
	if linkErr != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		parent, parentErr := filepath.EvalSymlinks(filepath.Dir(path))
		if parentErr != nil {
			return "", err
		}
		target = filepath.Join(parent, target)
	}
	return filepath.Clean(target), nil
}

const removeTreeAttempts = 3

// removeTree deletes a directory tree. Removal on network filesystems can
// spuriously report a directory as non-empty right after its entries were
// unlinked, so ENOTEMPTY is retried briefly and then handled by a manual
// bottom-up walk.
func removeTree(path string) error {
	var lastErr error
	for i := 0; i < removeTreeAttempts; i++ {
		lastErr = os.RemoveAll(path)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, syscall.ENOTEMPTY) {
			return lastErr
		}
		time.Sleep(50 * time.Millisecond)
	}
	return removeTreeManual(path)
}

func removeTreeManual(path string) error {
	var dirs []string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		return os.Remove(p)
	})
	if err != nil {
		return err
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Remove(dirs[i]); err != nil {
			return err
		}
	}
	return nil
}

// copyTemplates copies the static package scaffolding into the destination.
// An existing .gitignore in the destination wins over the template copy.
func (g *Generator) copyTemplates(dest string) error {
	templates := g.Config.inputPath(g.Config.TemplatesDir)
	if _, err := os.Stat(templates); err != nil {
		return fmt.Errorf("missing templates at %s", templates)
	}
	return filepath.WalkDir(templates, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(templates, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dest, rel)
		if d.Name() == ".gitignore" {
			if _, err := os.Stat(target); err == nil {
				g.logger().Infof("skip: %s already exists", target)
				return nil
			}
		}
		return copyEntry(path, d, target)
	})
}

// copySources stages the adapter pair under Sources/<CoreName> and replaces
// the crate directory wholesale so files removed upstream never linger.
func (g *Generator) copySources(dest string) error {
	cfg := g.Config
	lay := cfg.layoutFor(dest)

	if err := os.MkdirAll(lay.coreInclude, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(lay.coreSrc, 0o755); err != nil {
		return err
	}
	header := filepath.Join(lay.coreInclude, cfg.AdapterName+".h")
	if err := copyFile(cfg.inputPath(cfg.AdapterHeader), header); err != nil {
		return fmt.Errorf("failed to copy adapter header: %w", err)
	}
	source := filepath.Join(lay.coreSrc, cfg.AdapterName+".mm")
	if err := copyFile(cfg.inputPath(cfg.AdapterSource), source); err != nil {
		return fmt.Errorf("failed to copy adapter source: %w", err)
	}

	if err := os.RemoveAll(lay.rustDir); err != nil {
		return err
	}
	if err := copyTree(cfg.inputPath(cfg.CrateDir), lay.rustDir); err != nil {
		return fmt.Errorf("failed to copy crate: %w", err)
	}
	return nil
}

// copyFile copies src to dst, creating parent directories and carrying over
// the source's permissions and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// copyTree copies the directory tree rooted at src into dst, following
// symlinks.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return copyEntry(path, d, filepath.Join(dst, rel))
	})
}

// copyEntry materializes a single walked entry at target. Symlinks are
// followed: a linked directory is copied as a full tree and a linked file
// becomes a regular file. A dangling link is an error.
func copyEntry(path string, d fs.DirEntry, target string) error {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				return err
			}
			return copyTree(resolved, target)
		}
		return copyFile(path, target)
	}
	if d.IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	return copyFile(path, target)
}
