package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"modelrt/internal/common/fsutil"
	"modelrt/pkg/types"
)

// Model file names probed in each folder, in preference order.
var modelFiles = []struct {
	name   string
	format string
}{
	{"model.pmx", "pmx"},
	{"model.pmd", "pmd"},
}

// LoadDir scans the asset root for model folders. A folder is a model when
// it holds model.pmx or model.pmd; its name is the logical model name.
// Folders named in skip (the shared clip folders) are ignored. Results are
// sorted by name.
func LoadDir(root string, skip ...string) ([]types.ModelSource, error) {
	base, err := fsutil.ExpandHome(root)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}
	var models []types.ModelSource
	for _, e := range entries {
		if !e.IsDir() || skipped[e.Name()] {
			continue
		}
		dir := filepath.Join(abs, e.Name())
		for _, mf := range modelFiles {
			if fsutil.FileExists(filepath.Join(dir, mf.name)) {
				models = append(models, types.ModelSource{Name: e.Name(), Dir: dir, File: mf.name, Format: mf.format})
				break
			}
		}
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models, nil
}
