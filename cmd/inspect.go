package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/skilldex/internal/engine"
	"github.com/kamusis/skilldex/internal/trigger"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <module-id>",
	Short: "Show metadata and trigger keywords of one skill module",
	Long: `Display a formatted summary of a module: its description, trigger
keywords with their specificity classes and weights, and declared reference
documents.

Example:
  skilldex inspect collections
  skilldex inspect net/tcp`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	eng, err := newEngine(engine.Options{})
	if err != nil {
		return err
	}
	c := eng.Corpus()

	m, ok := c.Module(args[0])
	if !ok {
		return fmt.Errorf("no module %q in corpus %s", args[0], c.Root)
	}

	printSection(fmt.Sprintf("Module: %s", m.ID))
	fmt.Printf("\nName:        %s\n", m.Name)
	if m.ParentID != "" {
		fmt.Printf("Parent:      %s\n", m.ParentID)
	} else {
		fmt.Printf("Role:        corpus root (query fallback)\n")
	}
	if m.Description != "" {
		fmt.Printf("Description: %s\n", m.Description)
	}

	fmt.Printf("\nTrigger keywords (%d):\n", len(m.Keywords))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, raw := range m.Keywords {
		fmt.Fprintf(w, "  %s\t%s\t%d\n", raw, trigger.Classify(raw), trigger.WeightOf(raw))
	}
	_ = w.Flush()

	fmt.Printf("\nReference documents (%d):\n", len(m.References))
	for _, ref := range m.References {
		printInfo("", fmt.Sprintf("%s (%d bytes)", ref.Path, ref.Size))
	}
	return nil
}
