package swiftpkg

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
)

// applyPatches applies every *.patch file from the patch directory to the
// destination in lexicographic order, so numbered patches keep their
// intended sequence. A patch directory with no patches is an error: it means
// the checkout layout changed under the generator.
func (g *Generator) applyPatches(ctx context.Context, dest string) error {
	dir := g.Config.inputPath(g.Config.PatchesDir)
	patches, err := filepath.Glob(filepath.Join(dir, "*.patch"))
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		return fmt.Errorf("no patches found in %s", dir)
	}
	sort.Strings(patches)

	for _, patch := range patches {
		cmd := Command{
			Args: []string{"git", "apply", "--whitespace=nowarn", patch},
			Dir:  dest,
		}
		if err := g.Runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("failed to apply %s: %w", filepath.Base(patch), err)
		}
	}
	return nil
}
