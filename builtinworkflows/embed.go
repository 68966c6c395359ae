// Package builtinworkflows embeds the workflow definitions that ship with
// runbook. Built-ins are compiled in so a fresh install has a working catalog;
// user-defined workflows layered on top may override any of them by id.
package builtinworkflows

import (
	"embed"
	"io/fs"
)

// definitions embeds every built-in workflow YAML file under workflows/.
//
//go:embed workflows
var definitions embed.FS

// FS returns the embedded filesystem containing built-in workflow
// definitions, rooted at the workflows directory.
func FS() fs.FS {
	sub, err := fs.Sub(definitions, "workflows")
	if err != nil {
		// The embedded tree always contains workflows/; this cannot fail
		// outside of a broken build.
		panic(err)
	}
	return sub
}
