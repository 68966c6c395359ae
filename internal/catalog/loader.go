package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/runbook/internal/log"
)

// LoadFS parses every .yaml/.yml file in fsys into workflow definitions with
// the given source. Files are visited in sorted path order so catalog order is
// deterministic. A file that fails to parse or validate fails the whole load;
// embedded built-ins are expected to be correct.
func LoadFS(fsys fs.FS, src Source) ([]Workflow, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isYAML(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking workflow filesystem: %w", err)
	}
	sort.Strings(paths)

	defs := make([]Workflow, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		def, err := parse(data, path, src)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadDir parses user workflow definitions from dir. A missing or empty
// directory is not an error: the user may simply have no custom workflows.
// Unlike built-ins, a malformed user file is skipped with a WARN so one bad
// file never takes the whole catalog down.
func LoadDir(dir string) []Workflow {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	var defs []Workflow
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn(log.CatCatalog, "reading user workflow directory", "dir", dir, "error", err.Error())
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn(log.CatCatalog, "reading user workflow", "path", path, "error", err.Error())
			continue
		}
		def, err := parse(data, entry.Name(), SourceUser)
		if err != nil {
			log.Warn(log.CatCatalog, "skipping malformed user workflow", "path", path, "error", err.Error())
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

func parse(data []byte, path string, src Source) (Workflow, error) {
	var def Workflow
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Workflow{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if def.ID == "" {
		def.ID = idFromPath(path)
	}
	def.Source = src
	if err := validate(def); err != nil {
		return Workflow{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// idFromPath derives a workflow id from a filename, e.g.
// "workflows/incident-response.yaml" becomes "incident-response".
func idFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
