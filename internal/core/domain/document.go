package domain

import "strings"

// Line is a single numbered line of a document.
type Line struct {
	// Number is the 1-based line number.
	Number int

	// Text is the line content without its terminator.
	Text string
}

// Document is a corpus file. It is immutable once the corpus is loaded.
type Document struct {
	// Path is the slash-separated path relative to the corpus root.
	// It doubles as the document identifier.
	Path string

	// Lines holds every line in order. Lines[i].Number == i+1.
	Lines []Line
}

// NewDocument splits text into numbered lines. Windows line endings are
// normalised and a trailing newline does not produce an empty final line.
func NewDocument(path, text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	doc := Document{Path: path}
	if text == "" {
		return doc
	}

	parts := strings.Split(text, "\n")
	doc.Lines = make([]Line, len(parts))
	for i, p := range parts {
		doc.Lines[i] = Line{Number: i + 1, Text: strings.TrimSuffix(p, "\r")}
	}
	return doc
}

// LineCount returns the number of lines in the document.
func (d Document) LineCount() int {
	return len(d.Lines)
}

// Line returns the text of the 1-based line n.
func (d Document) Line(n int) (string, bool) {
	if n < 1 || n > len(d.Lines) {
		return "", false
	}
	return d.Lines[n-1].Text, true
}

// Location identifies a line in the corpus.
type Location struct {
	Path string
	Line int
}
