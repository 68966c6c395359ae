package catalog

import (
	"fmt"
	"sort"
)

// Catalog is the immutable set of workflow definitions available to the
// assistant. Catalog order is stable: built-ins in load order, then user
// workflows sorted by id. User definitions override built-ins with the same id.
type Catalog struct {
	workflows []Workflow
}

// New builds a catalog from the given definitions. Later definitions with a
// duplicate id replace earlier ones in place, which gives user workflows
// precedence when they are appended after built-ins.
func New(defs ...Workflow) (*Catalog, error) {
	index := make(map[string]int, len(defs))
	var ordered []Workflow
	for _, def := range defs {
		if err := validate(def); err != nil {
			return nil, err
		}
		if i, ok := index[def.ID]; ok {
			ordered[i] = def
			continue
		}
		index[def.ID] = len(ordered)
		ordered = append(ordered, def)
	}
	return &Catalog{workflows: ordered}, nil
}

// List returns all workflows in catalog order.
func (c *Catalog) List() []Workflow {
	out := make([]Workflow, len(c.workflows))
	copy(out, c.workflows)
	return out
}

// Len returns the number of workflows in the catalog.
func (c *Catalog) Len() int {
	return len(c.workflows)
}

// ListBySource returns workflows from the given source, sorted by id.
func (c *Catalog) ListBySource(src Source) []Workflow {
	var out []Workflow
	for _, wf := range c.workflows {
		if wf.Source == src {
			out = append(out, wf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func validate(def Workflow) error {
	if def.ID == "" {
		return fmt.Errorf("workflow %q: id is required", def.Name)
	}
	if def.Name == "" {
		return fmt.Errorf("workflow %q: name is required", def.ID)
	}
	if len(def.Steps) == 0 {
		return fmt.Errorf("workflow %q: at least one step is required", def.ID)
	}
	seen := make(map[string]bool, len(def.Steps))
	for i, step := range def.Steps {
		if step.ID == "" {
			return fmt.Errorf("workflow %q: step %d: id is required", def.ID, i)
		}
		if step.Title == "" {
			return fmt.Errorf("workflow %q: step %q: title is required", def.ID, step.ID)
		}
		if seen[step.ID] {
			return fmt.Errorf("workflow %q: duplicate step id %q", def.ID, step.ID)
		}
		seen[step.ID] = true
	}
	return nil
}
