package domain

import "fmt"

// Role identifies the author of a chat turn.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the chat log.
//
// An assistant turn is created empty when a request is sent and grows
// only by appending streamed text. It becomes Final exactly once, on
// completion, cancellation or transport failure.
type Turn struct {
	// ID uniquely identifies the turn.
	ID string

	// Role is who wrote the turn.
	Role Role

	// Text is the accumulated message text.
	Text string

	// Citations are the resolved references found in Text once final.
	Citations []Citation

	// Final is true once the turn will receive no more text.
	Final bool

	// Canceled is true if the user stopped the stream.
	Canceled bool

	// Err holds the transport error notice of a failed turn.
	Err string
}

// Failed returns true if the turn ended with a transport error.
func (t Turn) Failed() bool {
	return t.Err != ""
}

// Citation is a reference from assistant text to a corpus line that
// exists.
type Citation struct {
	// Path is the cited document.
	Path string

	// Line is the cited 1-based line number.
	Line int

	// Label is the reference text as written in the answer.
	Label string
}

// Location returns where the citation points to.
func (c Citation) Location() Location {
	return Location{Path: c.Path, Line: c.Line}
}

// String returns the canonical path:line form.
func (c Citation) String() string {
	return fmt.Sprintf("%s:%d", c.Path, c.Line)
}

// CitationMatch is a citation listed in Citations mode.
type CitationMatch struct {
	Citation

	// Index is the citation's position within its turn.
	Index int

	// Score orders filtered citations; zero when no filter is active.
	Score int

	// Positions are the rune indices in Label matched by the filter.
	Positions []int
}
