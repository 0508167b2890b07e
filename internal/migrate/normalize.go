package migrate

import (
	"strings"

	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/markdown"
	"git.home.luguber.info/inful/actiondocs/internal/section"
)

// MergeConsecutive collapses runs of same-identifier spans that are
// separated only by whitespace into a single span, concatenating their
// inner contents. Tools that emit one marker pair per paragraph produce
// such runs; after merging, at most one span per identifier remains
// authoritative in each run.
func MergeConsecutive(doc content.Content) content.Content {
	var edits []markdown.Edit
	cur := doc.NewCursor()
	var prevEnd *content.Match
	var prevEndID section.Identifier

	for {
		m := cur.Next(section.MarkerPattern)
		if m == nil {
			break
		}
		id := section.Identifier(m.Groups[1])
		kind := m.Groups[2]
		if kind == "end" {
			prevEnd = m
			prevEndID = id
			continue
		}
		// Start marker: merge with the preceding end marker of the same
		// identifier when only whitespace separates them.
		if prevEnd != nil && id == prevEndID {
			between := doc.Slice(prevEnd.End, m.Start)
			if between.TrimSpace().IsEmpty() {
				regionStart := backupWhitespace(doc, prevEnd.Start)
				regionEnd := consumeLineBreak(doc, m.End)
				edits = append(edits, markdown.Edit{
					Start:       regionStart,
					End:         regionEnd,
					Replacement: content.FromString("\n"),
				})
			}
		}
		prevEnd = nil
	}

	merged, err := markdown.ApplyEdits(doc, edits)
	if err != nil {
		// Edits derive from non-overlapping scan positions; a failure
		// here means the scan itself is broken, so keep the input.
		return doc
	}
	return merged
}

// FillMissing inserts an empty rendered section for every canonical
// identifier absent from doc, anchored immediately after the end marker
// of the nearest preceding present identifier in canonical order.
// Identifiers with no present predecessor are appended at the end.
// Anchors are recomputed after each insertion, so an identifier inserted
// earlier in the pass can serve as the predecessor for the next one.
func FillMissing(doc content.Content) content.Content {
	for _, id := range section.All() {
		if doc.Index(section.Start(id), 0) >= 0 {
			continue
		}
		doc = insertAfterPredecessor(doc, id)
	}
	return doc
}

func insertAfterPredecessor(doc content.Content, id section.Identifier) content.Content {
	rendered := section.Render(id, content.Empty)

	anchor := -1
	for rank := section.Rank(id) - 1; rank >= 0; rank-- {
		pred := section.All()[rank]
		endPos := doc.Index(section.End(pred), 0)
		if endPos < 0 {
			continue
		}
		anchor = consumeLineBreak(doc, endPos+len(section.End(pred)))
		break
	}

	if anchor < 0 {
		// No present predecessor: append at the very end.
		out := doc
		if out.Len() > 0 && out.ByteAt(out.Len()-1) != '\n' {
			out = out.AppendString("\n")
		}
		return out.Append(rendered)
	}

	insertion := content.FromString("\n").Append(rendered)
	out, err := markdown.ApplyEdits(doc, []markdown.Edit{markdown.Insertion(anchor, insertion)})
	if err != nil {
		return doc
	}
	return out
}

// Spans lists the canonical section spans present in doc, in document
// order. Malformed spans (start with no matching end before the next
// marker of the same identifier) are skipped, never merged across
// identifiers.
func Spans(doc content.Content) []SectionSpan {
	var spans []SectionSpan
	open := map[section.Identifier]*content.Match{}
	cur := doc.NewCursor()
	for {
		m := cur.Next(section.MarkerPattern)
		if m == nil {
			break
		}
		id := section.Identifier(m.Groups[1])
		switch m.Groups[2] {
		case "start":
			open[id] = m
		case "end":
			start, ok := open[id]
			if !ok {
				continue
			}
			spans = append(spans, SectionSpan{
				ID:    id,
				Start: start.Start,
				End:   m.End,
				Inner: strings.TrimSpace(doc.Slice(start.End, m.Start).String()),
			})
			delete(open, id)
		}
	}
	return spans
}

// SectionSpan is one canonical start..end span located in a document.
type SectionSpan struct {
	ID    section.Identifier
	Start int
	End   int
	Inner string
}

// backupWhitespace walks from pos back over whitespace and returns the
// first offset still inside the whitespace run.
func backupWhitespace(doc content.Content, pos int) int {
	for pos > 0 {
		b := doc.ByteAt(pos - 1)
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			break
		}
		pos--
	}
	return pos
}

// consumeLineBreak returns the offset just past a line break at pos, if
// one is there.
func consumeLineBreak(doc content.Content, pos int) int {
	if doc.ByteAt(pos) == '\r' {
		pos++
	}
	if doc.ByteAt(pos) == '\n' {
		pos++
	}
	return pos
}
