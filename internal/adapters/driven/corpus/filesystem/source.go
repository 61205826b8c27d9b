// Package filesystem loads the corpus from a directory tree.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/karrick/godirwalk"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Source walks a directory for corpus documents.
type Source struct {
	root     string
	settings domain.CorpusSettings
	exts     map[string]bool
	excluded map[string]bool
}

// NewSource creates a source for settings. The root is made absolute.
func NewSource(settings domain.CorpusSettings) (*Source, error) {
	root := settings.Root
	if root == "" {
		root = domain.DefaultCorpusRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory: %w", abs, domain.ErrInvalidInput)
	}

	s := &Source{
		root:     abs,
		settings: settings,
		exts:     make(map[string]bool, len(settings.Extensions)),
		excluded: make(map[string]bool, len(settings.ExcludeDirs)),
	}
	for _, ext := range settings.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.exts[ext] = true
	}
	for _, dir := range settings.ExcludeDirs {
		s.excluded[dir] = true
	}
	return s, nil
}

// Root returns the absolute corpus root.
func (s *Source) Root() string {
	return s.root
}

// Load walks the root and reads every matching file. Paths are relative
// to the root with forward slashes. Unreadable files are skipped with a
// warning. When RespectGitignore is set, a .gitignore in any walked
// directory applies to everything below it.
func (s *Source) Load(ctx context.Context) ([]domain.RawDocument, error) {
	var docs []domain.RawDocument
	rules := make(gitignores)

	err := godirwalk.Walk(s.root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if path == s.root {
				s.loadIgnore(rules, path)
				return nil
			}

			name := de.Name()
			if de.IsDir() {
				if s.excluded[name] || (!s.settings.IncludeHidden && isHidden(name)) {
					return godirwalk.SkipThis
				}
				if rules.ignored(s.root, path, true) {
					return godirwalk.SkipThis
				}
				s.loadIgnore(rules, path)
				return nil
			}
			if !s.wants(name) || rules.ignored(s.root, path, false) {
				return nil
			}

			doc, ok := s.read(path)
			if ok {
				docs = append(docs, doc)
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			logger.Warn("Skipping %s: %v", path, err)
			return godirwalk.SkipNode
		},
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	logger.Debug("Loaded %d documents from %s", len(docs), s.root)
	return docs, nil
}

func (s *Source) loadIgnore(rules gitignores, dir string) {
	if !s.settings.RespectGitignore {
		return
	}
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}
	rules[dir] = gi
}

func (s *Source) wants(name string) bool {
	if !s.settings.IncludeHidden && isHidden(name) {
		return false
	}
	return s.exts[strings.ToLower(filepath.Ext(name))]
}

func (s *Source) read(path string) (domain.RawDocument, bool) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return domain.RawDocument{}, false
	}
	if !info.Mode().IsRegular() {
		return domain.RawDocument{}, false
	}
	if s.settings.MaxFileBytes > 0 && info.Size() > s.settings.MaxFileBytes {
		logger.Debug("Skipping %s: %d bytes exceeds limit", path, info.Size())
		return domain.RawDocument{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return domain.RawDocument{}, false
	}
	if !utf8.Valid(content) {
		logger.Debug("Skipping %s: not UTF-8", path)
		return domain.RawDocument{}, false
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return domain.RawDocument{}, false
	}
	return domain.RawDocument{Path: filepath.ToSlash(rel), Content: content}, true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// gitignores holds the compiled .gitignore of each walked directory.
type gitignores map[string]*ignore.GitIgnore

// ignored reports whether a .gitignore in any directory between root and
// path matches path. Patterns are relative to the directory holding them.
func (g gitignores) ignored(root, path string, dir bool) bool {
	if len(g) == 0 {
		return false
	}
	for base := filepath.Dir(path); ; base = filepath.Dir(base) {
		if gi, ok := g[base]; ok {
			rel, err := filepath.Rel(base, path)
			if err == nil {
				rel = filepath.ToSlash(rel)
				if dir {
					rel += "/"
				}
				if gi.MatchesPath(rel) {
					return true
				}
			}
		}
		if base == root || base == filepath.Dir(base) {
			return false
		}
	}
}
