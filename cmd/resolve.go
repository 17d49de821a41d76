package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/skilldex/internal/engine"
)

var (
	flagResolveJSON     bool
	flagResolveExplain  bool
	flagResolveK        int
	flagResolveMaxBytes int
	flagResolveNoDocs   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Resolve a free-text query to skill modules and their documents",
	Long: `Resolve matches a query against every module's trigger keywords and
prints the selected modules with their reference documents.

Latin-script keywords match on whole-word boundaries; CJK keywords match by
substring containment. A query matching nothing resolves to the corpus root
module, so the result is never empty.

Example:
  skilldex resolve "how do I use std::fs to read a file"
  skilldex resolve 哈希表 --explain
  skilldex resolve HashMap --json`,
	Args: cobra.MinimumNArgs(0),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&flagResolveJSON, "json", false, "Emit the result as JSON")
	resolveCmd.Flags().BoolVar(&flagResolveExplain, "explain", false, "Show matched keywords, classes and weights")
	resolveCmd.Flags().IntVarP(&flagResolveK, "limit", "k", 0, "Maximum number of matched modules (0 = unlimited)")
	resolveCmd.Flags().IntVar(&flagResolveMaxBytes, "max-bytes", 0, "Response document budget in bytes (0 = config or default)")
	resolveCmd.Flags().BoolVar(&flagResolveNoDocs, "no-docs", false, "Print the selection only, skip document bodies")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	eng, err := newEngine(engine.Options{
		Limit:            flagResolveK,
		MaxResponseBytes: flagResolveMaxBytes,
	})
	if err != nil {
		return err
	}

	res, err := eng.Resolve(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	if flagResolveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResolveResult(res)
	return nil
}

func printResolveResult(res *engine.Result) {
	fmt.Printf("\nskilldex resolve %q\n", res.Query)
	fmt.Printf("Modules (%d selected):\n", len(res.Modules))

	for i, m := range res.Modules {
		fmt.Println()
		switch {
		case m.Fallback:
			fmt.Printf("%d. %s (root fallback)\n", i+1, m.ModuleID)
		default:
			fmt.Printf("%d. %s [score %d]\n", i+1, m.ModuleID, m.Score)
		}
		if m.Description != "" {
			fmt.Printf("   %s\n", strings.TrimSpace(m.Description))
		}

		if flagResolveExplain && len(m.Matched) > 0 {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, k := range m.Matched {
				fmt.Fprintf(w, "   · %s\t%s\t%d\n", k.Keyword, k.Class, k.Weight)
			}
			_ = w.Flush()
		}

		for _, le := range m.LoadErrors {
			printErr(m.ModuleID, le.Error())
		}
		for _, p := range m.Omitted {
			printSkip(m.ModuleID, fmt.Sprintf("omitted %s (response budget)", p))
		}

		if flagResolveNoDocs {
			for _, d := range m.Documents {
				printInfo(m.ModuleID, fmt.Sprintf("%s (%d bytes)", d.Path, d.Size))
			}
			continue
		}
		for _, d := range m.Documents {
			fmt.Printf("\n--- %s ---\n", d.Path)
			fmt.Println(strings.TrimRight(d.Content, "\n"))
		}
	}
	fmt.Printf("\n%d bytes of document content returned.\n", res.ContentBytes)
}
