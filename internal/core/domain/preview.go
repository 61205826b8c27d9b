package domain

// PreviewWindow is the slice of a document shown around a selected line.
type PreviewWindow struct {
	// Path is the previewed document.
	Path string

	// Start and End are the 1-based inclusive bounds of the window.
	Start int
	End   int

	// Target is the highlighted line. It always lies within [Start, End]
	// unless the window is empty.
	Target int

	// Lines holds the lines from Start to End.
	Lines []Line
}

// Empty returns true if the window holds no lines.
func (w PreviewWindow) Empty() bool {
	return len(w.Lines) == 0
}
