package domain

// RawDocument represents the bytes of one corpus file as returned by the
// corpus source, before it is split into lines.
type RawDocument struct {
	// Path is the slash-separated path relative to the corpus root.
	Path string

	// Content is the raw file bytes.
	Content []byte
}
