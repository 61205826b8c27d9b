package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero or negative means
	// every matching line is returned.
	Limit int
}

// Match is a single fuzzy hit: one corpus line that contains every
// query character in order.
type Match struct {
	// Path is the document the line belongs to.
	Path string

	// Line is the 1-based line number.
	Line int

	// Text is the full line text.
	Text string

	// Score orders matches; higher is better.
	Score int

	// Positions are the rune indices in Text that matched the query,
	// ascending.
	Positions []int
}

// Location returns where the match points to.
func (m Match) Location() Location {
	return Location{Path: m.Path, Line: m.Line}
}
