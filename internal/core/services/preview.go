package services

import "github.com/custodia-labs/finder/internal/core/domain"

// PreviewWindow returns up to height lines of doc around the 1-based
// target line. The target is centred when the document allows it, and the
// window is shifted to stay inside the document near its edges. A target
// outside the document is clamped to the nearest line.
func PreviewWindow(doc domain.Document, target, height int) domain.PreviewWindow {
	n := doc.LineCount()
	if height <= 0 || n == 0 {
		return domain.PreviewWindow{Path: doc.Path}
	}

	target = min(max(target, 1), n)
	size := min(height, n)

	start := target - size/2
	start = min(max(start, 1), n-size+1)
	end := start + size - 1

	return domain.PreviewWindow{
		Path:   doc.Path,
		Start:  start,
		End:    end,
		Target: target,
		Lines:  doc.Lines[start-1 : end],
	}
}
