package files

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/root-talis/susume/source"
	"github.com/root-talis/susume/unit"
)

type filesSource struct {
	fsys fs.FS
	dir  string
}

var ErrNotADirectory = errors.New("migrations location is not a directory")

// NewSource creates a Source listing units from dir inside fsys. A
// missing dir is not an error — it lists as empty ("nothing to do").
func NewSource(fsys fs.FS, dir string) (source.Source, error) {
	stat, err := fs.Stat(fsys, dir)

	if err == nil && !stat.IsDir() {
		return nil, ErrNotADirectory
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat migrations directory: %w", err)
	}

	return &filesSource{
		fsys: fsys,
		dir:  dir,
	}, nil
}

func (src *filesSource) ListUnits() (*[]unit.Unit, error) {
	dirEntries, err := fs.ReadDir(src.fsys, src.dir)
	if errors.Is(err, fs.ErrNotExist) {
		empty := make([]unit.Unit, 0)
		return &empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contents of migrations directory: %w", err)
	}

	result := make([]unit.Unit, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}

		fileName := entry.Name()
		if strings.HasPrefix(fileName, ".") {
			continue
		}

		result = append(result, unit.Unit{
			Name: fileName,
			Kind: probeKind(fileName),
			Path: path.Join(src.dir, fileName),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return &result, nil
}

// probeKind is the capability probe, applied once at discovery time.
// Plain SQL scripts are the only shape the runner knows how to execute
// against the store handle; anything else is assumed to manage its own
// lifecycle and is adoption-only.
func probeKind(fileName string) unit.Kind {
	if strings.HasSuffix(fileName, ".sql") {
		return unit.Callable
	}
	return unit.SelfContained
}
