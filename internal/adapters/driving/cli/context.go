package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contextStats bool

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the corpus as the assistant sees it",
	Long: `Prints the whole corpus in the line-addressed form sent to the assistant
with every chat message: a header per document, then each line prefixed
with its [path:line] reference.`,
	Args: cobra.NoArgs,
	RunE: runContext,
}

func init() {
	contextCmd.Flags().BoolVar(&contextStats, "stats", false, "print document and line counts only")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}

	if !contextStats {
		fmt.Fprint(cmd.OutOrStdout(), svc.Corpus.Context())
		return nil
	}

	docs := svc.Corpus.Documents()
	lines := 0
	for _, d := range docs {
		lines += d.LineCount()
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Root: %s\n", svc.Corpus.Root())
	fmt.Fprintf(out, "Documents: %d\n", len(docs))
	fmt.Fprintf(out, "Lines: %d\n", lines)
	fmt.Fprintf(out, "Context: %d bytes\n", len(svc.Corpus.Context()))
	return nil
}
