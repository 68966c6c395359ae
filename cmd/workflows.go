package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/runbook/internal/catalog"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List available workflows",
	Long:  `Display every workflow in the catalog, including built-in and user-defined workflows.`,
	RunE:  runWorkflowsList,
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
}

func runWorkflowsList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loading workflows: %w", err)
	}

	builtins := cat.ListBySource(catalog.SourceBuiltIn)
	users := cat.ListBySource(catalog.SourceUser)

	fmt.Println("Built-in Workflows:")
	if len(builtins) == 0 {
		fmt.Println("  (none)")
	} else {
		maxLen := maxIDLen(builtins)
		for _, wf := range builtins {
			fmt.Printf("  %-*s  %s\n", maxLen, wf.ID, wf.Summary)
		}
	}

	fmt.Println()

	fmt.Printf("User Workflows (%s):\n", cfg.CatalogDir)
	if len(users) == 0 {
		fmt.Println("  (none)")
	} else {
		maxLen := maxIDLen(users)
		for _, wf := range users {
			fmt.Printf("  %-*s  %s\n", maxLen, wf.ID, wf.Summary)
		}
	}

	fmt.Println()
	fmt.Println("Start one in the chat with \"start <name>\"")

	return nil
}

// maxIDLen returns the length of the longest workflow ID in the slice.
func maxIDLen(workflows []catalog.Workflow) int {
	maxLen := 0
	for _, wf := range workflows {
		if len(wf.ID) > maxLen {
			maxLen = len(wf.ID)
		}
	}
	return maxLen
}
