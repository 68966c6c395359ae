package catalog

import "strings"

// Find resolves an exact id, exact name (case-insensitive), or name substring,
// in that order. Returns nil when nothing matches.
func (c *Catalog) Find(idOrName string) *Workflow {
	query := strings.ToLower(strings.TrimSpace(idOrName))
	if query == "" {
		return nil
	}
	for i := range c.workflows {
		if c.workflows[i].ID == query {
			return &c.workflows[i]
		}
	}
	for i := range c.workflows {
		if strings.ToLower(c.workflows[i].Name) == query {
			return &c.workflows[i]
		}
	}
	for i := range c.workflows {
		if strings.Contains(strings.ToLower(c.workflows[i].Name), query) {
			return &c.workflows[i]
		}
	}
	return nil
}

// FindByText matches free text against the catalog. The rule set is small and
// deliberate, checked per workflow in catalog order, first hit wins:
//
//  1. the text contains the workflow name (lowercased)
//  2. the text contains the workflow id, with hyphens treated as spaces
//  3. the text contains one of the workflow's declared aliases
//
// This is substring containment, not scoring: "Start Incident Response now"
// matches the incident-response workflow via rule 1. Returns nil when no rule
// fires for any workflow.
func (c *Catalog) FindByText(text string) *Workflow {
	haystack := strings.ToLower(text)
	if strings.TrimSpace(haystack) == "" {
		return nil
	}
	for i := range c.workflows {
		wf := &c.workflows[i]
		if strings.Contains(haystack, strings.ToLower(wf.Name)) {
			return wf
		}
		if strings.Contains(haystack, strings.ReplaceAll(wf.ID, "-", " ")) {
			return wf
		}
		for _, alias := range wf.Aliases {
			if alias != "" && strings.Contains(haystack, strings.ToLower(alias)) {
				return wf
			}
		}
	}
	return nil
}
