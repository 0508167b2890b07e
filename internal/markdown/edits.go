package markdown

import (
	"errors"
	"fmt"
	"sort"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

// Edit is a targeted byte-range replacement. Start and End are offsets
// into the original content, End exclusive; Replacement takes the place
// of the range. An insertion uses Start == End.
type Edit struct {
	Start       int
	End         int
	Replacement content.Content
}

// Insertion builds an Edit that inserts c at offset.
func Insertion(offset int, c content.Content) Edit {
	return Edit{Start: offset, End: offset, Replacement: c}
}

// ApplyEdits applies non-overlapping edits to src and returns the result.
// Edits refer to offsets in the original content; they are applied from
// the end toward the beginning so earlier edits cannot invalidate later
// offsets. Overlapping or out-of-range edits are rejected.
func ApplyEdits(src content.Content, edits []Edit) (content.Content, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start > sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start {
			return content.Empty, fmt.Errorf("invalid edit[%d]: bad range [%d, %d)", i, e.Start, e.End)
		}
		if e.End > src.Len() {
			return content.Empty, fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		}
		// Sorted by Start descending: the current edit must end at or
		// before the previous edit's start.
		if i > 0 && e.End > sorted[i-1].Start {
			return content.Empty, errors.New("invalid edits: overlapping ranges")
		}
	}

	out := src
	for _, e := range sorted {
		out = out.Slice(0, e.Start).
			Append(e.Replacement).
			Append(out.Slice(e.End, out.Len()))
	}
	return out, nil
}
