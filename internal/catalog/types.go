// Package catalog provides the immutable workflow catalog: loading workflow
// definitions from YAML, lookup by id or name, and free-text matching used by
// the assistant to resolve phrases like "start incident response".
package catalog

// Source indicates where a workflow definition originated from.
type Source int

const (
	// SourceBuiltIn indicates a workflow bundled with the application.
	SourceBuiltIn Source = iota
	// SourceUser indicates a workflow from the user's catalog directory.
	SourceUser
)

// String returns a human-readable representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "built-in"
	case SourceUser:
		return "user"
	default:
		return "unknown"
	}
}

// Step is one unit of work within a workflow.
type Step struct {
	// ID is unique within the workflow (e.g., "triage").
	ID string `yaml:"id"`

	// Title is the short display name shown in step headers.
	Title string `yaml:"title"`

	// Description explains what the step involves.
	Description string `yaml:"description"`

	// Owner is the role responsible for the step (e.g., "On-call engineer").
	Owner string `yaml:"owner"`

	// Duration is an optional human-readable estimate (e.g., "15 minutes").
	Duration string `yaml:"duration,omitempty"`

	// Outputs are the optional expected artifacts of the step.
	Outputs []string `yaml:"outputs,omitempty"`
}

// Workflow is a named, ordered playbook of steps with catalog metadata.
// Definitions are loaded once at startup and never mutated.
type Workflow struct {
	// ID is derived from the filename (e.g., "incident-response" from
	// "incident-response.yaml") unless set explicitly in the document.
	ID string `yaml:"id"`

	// Name is the human-readable display name.
	Name string `yaml:"name"`

	// Summary is a one-paragraph description.
	Summary string `yaml:"summary"`

	// Metrics are the success metrics tracked for this workflow.
	Metrics []string `yaml:"metrics,omitempty"`

	// Tags categorize the workflow (e.g., "ops", "security").
	Tags []string `yaml:"tags,omitempty"`

	// Aliases are extra free-text triggers for this workflow. Matching rules
	// live in match.go; aliases are data so tests can enumerate them.
	Aliases []string `yaml:"aliases,omitempty"`

	// Checklist items are verified before the run is considered done.
	Checklist []string `yaml:"checklist,omitempty"`

	// Resources are links or references useful during the run.
	Resources []string `yaml:"resources,omitempty"`

	// Steps is the non-empty ordered list of steps.
	Steps []Step `yaml:"steps"`

	// Source indicates whether this is a built-in or user-defined workflow.
	Source Source `yaml:"-"`
}
