package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// pageSize is how far PageUp and PageDown move.
const pageSize = 10

// Transient notices shown in the status bar.
const (
	NoticeChatUnavailable = "chat unavailable: no API key found for the configured provider"
	NoticeBusy            = "still answering: wait or press ctrl+c to cancel"
	NoticeCancelled       = "answer cancelled"
	NoticeNoCitations     = "the latest answer has no citations"
	NoticeLeaveFirst      = "press esc to return to search, or ctrl+q to quit"
)

// cursor is a selection in a list. It is -1 exactly when the list is empty.
type cursor struct {
	index int
}

func (c *cursor) reset(n int) {
	if n == 0 {
		c.index = -1
		return
	}
	c.index = 0
}

func (c *cursor) move(delta, n int) {
	if n == 0 {
		c.index = -1
		return
	}
	c.index = min(max(c.index+delta, 0), n-1)
}

// Session is the interactive state machine. It owns the active mode and
// the state of every mode, which persists across mode switches. It is
// not safe for concurrent use; the main loop owns it.
type Session struct {
	search driving.SearchService
	corpus driving.CorpusService
	chat   driving.ChatService

	mode   domain.Mode
	notice string

	query   string
	matches []domain.Match
	results cursor

	chatInput  string
	chatScroll int

	citeTurn  string
	citeQuery string
	citeAll   []domain.Citation
	citations []domain.CitationMatch
	citeSel   cursor
}

// NewSession creates a session starting in search mode.
func NewSession(search driving.SearchService, corpus driving.CorpusService, chat driving.ChatService) *Session {
	return &Session{
		search:  search,
		corpus:  corpus,
		chat:    chat,
		mode:    domain.ModeSearch,
		results: cursor{index: -1},
		citeSel: cursor{index: -1},
	}
}

// Handle routes one input to the active mode and returns what the main
// loop must do next.
func (s *Session) Handle(ctx context.Context, in domain.Input) domain.Effect {
	s.notice = ""

	if in.Kind == domain.InputForceQuit {
		s.chat.Cancel()
		return domain.Effect{Quit: true}
	}

	switch s.mode {
	case domain.ModeChat:
		return s.handleChat(ctx, in)
	case domain.ModeCitations:
		return s.handleCitations(in)
	default:
		return s.handleSearch(ctx, in)
	}
}

func (s *Session) handleSearch(ctx context.Context, in domain.Input) domain.Effect {
	switch in.Kind {
	case domain.InputChar:
		s.query += string(in.Char)
		s.runSearch(ctx)
	case domain.InputBackspace:
		if s.query != "" {
			s.query = dropLastRune(s.query)
			s.runSearch(ctx)
		}
	case domain.InputUp:
		s.results.move(-1, len(s.matches))
	case domain.InputDown:
		s.results.move(1, len(s.matches))
	case domain.InputPageUp:
		s.results.move(-pageSize, len(s.matches))
	case domain.InputPageDown:
		s.results.move(pageSize, len(s.matches))
	case domain.InputActivate:
		if loc, ok := s.selectedMatch(); ok {
			return domain.Effect{Open: &loc}
		}
	case domain.InputCopy:
		if loc, ok := s.selectedMatch(); ok {
			return domain.Effect{Copy: &loc}
		}
	case domain.InputEnterChat:
		if !s.chat.Available() {
			s.notice = NoticeChatUnavailable
			break
		}
		s.mode = domain.ModeChat
	case domain.InputBack, domain.InputCancel, domain.InputQuit:
		return domain.Effect{Quit: true}
	}
	return domain.Effect{}
}

func (s *Session) handleChat(ctx context.Context, in domain.Input) domain.Effect {
	switch in.Kind {
	case domain.InputChar:
		s.chatInput += string(in.Char)
	case domain.InputBackspace:
		s.chatInput = dropLastRune(s.chatInput)
	case domain.InputUp:
		s.scrollChat(1)
	case domain.InputDown:
		s.scrollChat(-1)
	case domain.InputPageUp:
		s.scrollChat(pageSize)
	case domain.InputPageDown:
		s.scrollChat(-pageSize)
	case domain.InputActivate:
		return s.send(ctx)
	case domain.InputCancel:
		if s.chat.Cancel() {
			s.notice = NoticeCancelled
			break
		}
		s.mode = domain.ModeSearch
	case domain.InputBack:
		s.chat.Cancel()
		s.mode = domain.ModeSearch
	case domain.InputBrowseCitations:
		s.browseCitations()
	case domain.InputQuit:
		s.notice = NoticeLeaveFirst
	}
	return domain.Effect{}
}

func (s *Session) handleCitations(in domain.Input) domain.Effect {
	switch in.Kind {
	case domain.InputChar:
		s.citeQuery += string(in.Char)
		s.filterCitations()
	case domain.InputBackspace:
		if s.citeQuery != "" {
			s.citeQuery = dropLastRune(s.citeQuery)
			s.filterCitations()
		}
	case domain.InputUp:
		s.citeSel.move(-1, len(s.citations))
	case domain.InputDown:
		s.citeSel.move(1, len(s.citations))
	case domain.InputPageUp:
		s.citeSel.move(-pageSize, len(s.citations))
	case domain.InputPageDown:
		s.citeSel.move(pageSize, len(s.citations))
	case domain.InputActivate:
		if loc, ok := s.selectedCitation(); ok {
			return domain.Effect{Open: &loc}
		}
	case domain.InputCopy:
		if loc, ok := s.selectedCitation(); ok {
			return domain.Effect{Copy: &loc}
		}
	case domain.InputBack, domain.InputCancel:
		s.mode = domain.ModeChat
	case domain.InputQuit:
		s.notice = NoticeLeaveFirst
	}
	return domain.Effect{}
}

func (s *Session) runSearch(ctx context.Context) {
	matches, err := s.search.Search(ctx, s.query, domain.SearchOptions{})
	if err != nil {
		s.notice = err.Error()
		matches = nil
	}
	s.matches = matches
	s.results.reset(len(s.matches))
}

func (s *Session) send(ctx context.Context) domain.Effect {
	if s.chat.Streaming() {
		s.notice = NoticeBusy
		return domain.Effect{}
	}

	err := s.chat.Send(ctx, s.chatInput)
	switch {
	case err == nil:
		s.chatInput = ""
		s.chatScroll = 0
		return domain.Effect{Watch: true}
	case errors.Is(err, domain.ErrInvalidInput):
	case errors.Is(err, domain.ErrBusy):
		s.notice = NoticeBusy
	case errors.Is(err, domain.ErrLLMUnavailable):
		s.notice = NoticeChatUnavailable
	default:
		s.notice = err.Error()
	}
	return domain.Effect{}
}

func (s *Session) browseCitations() {
	turn, ok := s.chat.LatestAnswer()
	if !ok || !turn.Final || len(turn.Citations) == 0 {
		s.notice = NoticeNoCitations
		return
	}

	if turn.ID != s.citeTurn {
		s.citeTurn = turn.ID
		s.citeAll = turn.Citations
		s.citeQuery = ""
		s.filterCitations()
	}
	s.mode = domain.ModeCitations
}

func (s *Session) filterCitations() {
	s.citations = FilterCitations(s.citeAll, s.citeQuery)
	s.citeSel.reset(len(s.citations))
}

// scrollChat moves the transcript by delta lines, up being positive.
// The upper bound is the transcript's raw line count.
func (s *Session) scrollChat(delta int) {
	limit := 0
	for _, t := range s.chat.Turns() {
		limit += strings.Count(t.Text, "\n") + 2
	}
	s.chatScroll = min(max(s.chatScroll+delta, 0), limit)
}

func (s *Session) selectedMatch() (domain.Location, bool) {
	if s.results.index < 0 || s.results.index >= len(s.matches) {
		return domain.Location{}, false
	}
	return s.matches[s.results.index].Location(), true
}

func (s *Session) selectedCitation() (domain.Location, bool) {
	if s.citeSel.index < 0 || s.citeSel.index >= len(s.citations) {
		return domain.Location{}, false
	}
	return s.citations[s.citeSel.index].Location(), true
}

// Pump applies streamed chat text.
func (s *Session) Pump() bool {
	return s.chat.Pump()
}

// Updates signals that streamed chat text is waiting for Pump.
func (s *Session) Updates() <-chan struct{} {
	return s.chat.Updates()
}

// Mode returns the active mode.
func (s *Session) Mode() domain.Mode {
	return s.mode
}

// Notice returns the transient status message set by the last input.
func (s *Session) Notice() string {
	return s.notice
}

// Query returns the search query.
func (s *Session) Query() string {
	return s.query
}

// Matches returns the ranked search results.
func (s *Session) Matches() []domain.Match {
	return s.matches
}

// Selected returns the cursor of the active mode's list, or -1.
func (s *Session) Selected() int {
	switch s.mode {
	case domain.ModeSearch:
		return s.results.index
	case domain.ModeCitations:
		return s.citeSel.index
	default:
		return -1
	}
}

// ChatInput returns the message being composed.
func (s *Session) ChatInput() string {
	return s.chatInput
}

// ChatScroll returns how far the transcript is scrolled up.
func (s *Session) ChatScroll() int {
	return s.chatScroll
}

// ChatAvailable returns true if chat mode can be entered.
func (s *Session) ChatAvailable() bool {
	return s.chat.Available()
}

// Streaming returns true while an answer is in flight.
func (s *Session) Streaming() bool {
	return s.chat.Streaming()
}

// Turns returns the chat log.
func (s *Session) Turns() []domain.Turn {
	return s.chat.Turns()
}

// CitationQuery returns the citations filter.
func (s *Session) CitationQuery() string {
	return s.citeQuery
}

// Citations returns the filtered citations of the browsed answer.
func (s *Session) Citations() []domain.CitationMatch {
	return s.citations
}

// Preview returns the window around the selected line of the active list.
func (s *Session) Preview(height int) domain.PreviewWindow {
	var (
		loc domain.Location
		ok  bool
	)
	switch s.mode {
	case domain.ModeSearch:
		loc, ok = s.selectedMatch()
	case domain.ModeCitations:
		loc, ok = s.selectedCitation()
	}
	if !ok {
		return domain.PreviewWindow{}
	}

	doc, err := s.corpus.Document(loc.Path)
	if err != nil {
		return domain.PreviewWindow{}
	}
	return PreviewWindow(*doc, loc.Line, height)
}

func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
