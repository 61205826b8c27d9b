package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
	"github.com/custodia-labs/finder/internal/core/services"
	"github.com/custodia-labs/finder/internal/logger"
)

// resetState restores package state after a test.
func resetState(t *testing.T) {
	t.Helper()
	oldWiring := wiring
	t.Cleanup(func() {
		wiring = oldWiring
		built = nil
		flagVerbose = false
		flagLogFile = ""
		flagDir = ""
		flagProvider = ""
		flagModel = ""
		flagConfigDir = ""
		searchLimit = 10
		searchJSON = false
		contextStats = false
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
		resetBoolFlags(rootCmd)
	})
}

// resetBoolFlags clears help and version, which cobra leaves set between
// executions.
func resetBoolFlags(cmd *cobra.Command) {
	for _, name := range []string{"help", "version"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
		}
	}
	for _, c := range cmd.Commands() {
		resetBoolFlags(c)
	}
}

// useCorpus installs services over an in-memory corpus.
func useCorpus(t *testing.T, docs map[string]string) *Services {
	t.Helper()
	resetState(t)

	raws := make([]domain.RawDocument, 0, len(docs))
	for p, content := range docs {
		raws = append(raws, domain.RawDocument{Path: p, Content: []byte(content)})
	}
	corpus := services.NewCorpusIndex("/notes", raws)
	search := services.NewSearchService(corpus)
	chat := services.NewChatService(corpus, nil, nil, driven.ChatOptions{})
	defaults := domain.DefaultAppSettings()

	built = &Services{
		Search:   search,
		Corpus:   corpus,
		Session:  services.NewSession(search, corpus, chat),
		Actions:  services.NewResultActionService(corpus, nil),
		Settings: &defaults,
	}
	return built
}

// useSettings installs a settings service over an in-memory store.
func useSettings(t *testing.T, values map[string]any) *memory.ConfigStore {
	t.Helper()
	resetState(t)

	store := memory.NewConfigStore(values)
	wiring.Settings = func(string) (driving.SettingsService, error) {
		return services.NewSettingsService(store), nil
	}
	return store
}

// execute runs the command tree with args and returns everything written.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return run(t, stdin, rootCmd.Execute, args)
}

// executeContext runs args through Execute, including its cleanup.
func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	return run(t, "", func() error { return Execute(ctx) }, args)
}

func run(t *testing.T, stdin string, exec func() error, args []string) (string, error) {
	t.Helper()
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := exec()
	return buf.String(), err
}
