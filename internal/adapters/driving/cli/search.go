package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/finder/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy search corpus lines",
	Long: `Ranks every non-blank corpus line that contains the query characters in
order, ignoring case. Contiguous runs and matches at word starts score
higher. Each result is printed as path:line followed by the line.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results (0 for all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	svc, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
	}

	matches, err := svc.Search.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, matches)
	}

	outputSearchLines(cmd.OutOrStdout(), matches, colorEnabled(cmd.OutOrStdout()))
	return nil
}

type searchResultJSON struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Text      string `json:"text"`
	Score     int    `json:"score"`
	Positions []int  `json:"positions"`
}

func outputSearchJSON(cmd *cobra.Command, matches []domain.Match) error {
	results := make([]searchResultJSON, len(matches))
	for i, m := range matches {
		results[i] = searchResultJSON{
			Path:      m.Path,
			Line:      m.Line,
			Text:      m.Text,
			Score:     m.Score,
			Positions: m.Positions,
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// outputSearchLines prints one "path:line text" row per match, with the
// matched characters highlighted when colour is on.
func outputSearchLines(w io.Writer, matches []domain.Match, useColor bool) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}

	loc := color.New(color.FgCyan)
	hl := color.New(color.FgYellow, color.Bold)
	if useColor {
		loc.EnableColor()
		hl.EnableColor()
	} else {
		loc.DisableColor()
		hl.DisableColor()
	}

	for _, m := range matches {
		fmt.Fprintf(w, "%s %s\n", loc.Sprintf("%s:%d", m.Path, m.Line), highlight(m.Text, m.Positions, hl))
	}
}

// highlight wraps the runes at positions with hl.
func highlight(text string, positions []int, hl *color.Color) string {
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}

	var b strings.Builder
	i := 0
	for _, r := range text {
		if marked[i] {
			b.WriteString(hl.Sprint(string(r)))
		} else {
			b.WriteRune(r)
		}
		i++
	}
	return b.String()
}

// colorEnabled reports whether w is a terminal that accepts colour.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
