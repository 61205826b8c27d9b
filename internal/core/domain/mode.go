package domain

// Mode is the active interaction mode of a session.
type Mode int

// Session modes.
const (
	// ModeSearch fuzzy-filters corpus lines.
	ModeSearch Mode = iota

	// ModeChat converses with the assistant.
	ModeChat

	// ModeCitations browses the references of the latest answer.
	ModeCitations
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeChat:
		return "chat"
	case ModeCitations:
		return "citations"
	default:
		return "unknown"
	}
}

// InputKind classifies a user input event independent of key bindings.
type InputKind int

// Input kinds.
const (
	InputChar InputKind = iota
	InputBackspace
	InputUp
	InputDown
	InputPageUp
	InputPageDown
	InputActivate
	InputBack
	InputEnterChat
	InputBrowseCitations
	InputCancel
	InputCopy
	InputQuit
	InputForceQuit
)

// Input is one user input event.
type Input struct {
	Kind InputKind

	// Char is the typed rune for InputChar.
	Char rune
}

// Key returns an Input of the given kind.
func Key(kind InputKind) Input {
	return Input{Kind: kind}
}

// Char returns an InputChar event for r.
func Char(r rune) Input {
	return Input{Kind: InputChar, Char: r}
}

// Effect is what the main loop must do after handling an input.
type Effect struct {
	// Quit ends the session.
	Quit bool

	// Open asks for the location to be opened in the editor.
	Open *Location

	// Copy asks for the location's line text to be copied.
	Copy *Location

	// Watch is set when a chat stream has started and the main loop
	// should wait for streamed increments.
	Watch bool
}
