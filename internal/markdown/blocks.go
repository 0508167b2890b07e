package markdown

import (
	"git.home.luguber.info/inful/actiondocs/internal/content"
)

// Span is a half-open byte range [Start, End) inside a Content.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset i falls inside the span.
func (s Span) Contains(i int) bool { return i >= s.Start && i < s.End }

// CodeBlockSpan is a fenced code block located inside a Content.
type CodeBlockSpan struct {
	Span
	Language string // info string on the opening fence, "" when absent
	Marker   byte   // '`' or '~'
	Inner    Span   // content between the fence lines
}

// InlineCodeSpan is a balanced inline code span located inside a Content.
type InlineCodeSpan struct {
	Span
	Inner Span // content between the backtick runs
}

// FindCodeBlocks locates fenced code blocks in c. A fence candidate is a
// run of three or more backticks or tildes starting at offset 0 or
// immediately after a line break. The block closes at the first
// line-starting run of the same marker whose length is at least the
// opening length. Unclosed fences are not reported.
func FindCodeBlocks(c content.Content) []CodeBlockSpan {
	b := c.Bytes()
	var blocks []CodeBlockSpan
	i := 0
	for i < len(b) {
		if !atLineStart(b, i) {
			i = nextLine(b, i)
			continue
		}
		marker := b[i]
		if marker != '`' && marker != '~' {
			i = nextLine(b, i)
			continue
		}
		openLen := runLength(b, i, marker)
		if openLen < 3 {
			i = nextLine(b, i)
			continue
		}
		langStart := i + openLen
		langEnd := langStart
		for langEnd < len(b) && b[langEnd] != '\n' {
			langEnd++
		}
		innerStart := langEnd
		if innerStart < len(b) {
			innerStart++ // step past the newline
		}

		closeStart, closeLen := findClosingFence(b, innerStart, marker, openLen)
		if closeStart < 0 {
			// Unclosed fence: plain text, keep scanning after the opening line.
			i = nextLine(b, i)
			continue
		}

		innerEnd := closeStart
		if innerEnd > innerStart && b[innerEnd-1] == '\n' {
			innerEnd--
		}
		blocks = append(blocks, CodeBlockSpan{
			Span:     Span{Start: i, End: closeStart + closeLen},
			Language: trimASCIISpace(string(b[langStart:langEnd])),
			Marker:   marker,
			Inner:    Span{Start: innerStart, End: innerEnd},
		})
		i = nextLine(b, closeStart+closeLen-1)
	}
	return blocks
}

// FindInlineCode locates balanced inline code spans in c. An opening run
// of K backticks is closed only by the next run of exactly K backticks
// on the same line. Runs beginning inside any excluded span (typically
// fence delimiters found by FindCodeBlocks) are skipped. Unclosed spans
// are not reported.
func FindInlineCode(c content.Content, excluded []Span) []InlineCodeSpan {
	b := c.Bytes()
	var spans []InlineCodeSpan
	i := 0
	for i < len(b) {
		if b[i] != '`' {
			i++
			continue
		}
		if inSpans(excluded, i) {
			i = skipSpan(excluded, i)
			continue
		}
		openLen := runLength(b, i, '`')
		closeStart := findExactRun(b, i+openLen, openLen, excluded)
		if closeStart < 0 {
			i += openLen
			continue
		}
		spans = append(spans, InlineCodeSpan{
			Span:  Span{Start: i, End: closeStart + openLen},
			Inner: Span{Start: i + openLen, End: closeStart},
		})
		i = closeStart + openLen
	}
	return spans
}

// findClosingFence returns the offset and length of the first
// line-starting run of marker with length >= openLen at or after from,
// or (-1, 0) when none exists.
func findClosingFence(b []byte, from int, marker byte, openLen int) (int, int) {
	i := from
	for i < len(b) {
		if atLineStart(b, i) && b[i] == marker {
			n := runLength(b, i, marker)
			if n >= openLen {
				return i, n
			}
		}
		i = nextLine(b, i)
	}
	return -1, 0
}

// findExactRun returns the start of the next run of exactly n backticks
// on the same line as from, skipping runs inside excluded spans. Returns
// -1 at the first line break: a span left open on its line stays plain
// text, so table layout can split the cell on that line break.
func findExactRun(b []byte, from, n int, excluded []Span) int {
	i := from
	for i < len(b) {
		if b[i] == '\n' {
			return -1
		}
		if b[i] != '`' {
			i++
			continue
		}
		if inSpans(excluded, i) {
			i = skipSpan(excluded, i)
			continue
		}
		run := runLength(b, i, '`')
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

func runLength(b []byte, i int, marker byte) int {
	n := 0
	for i+n < len(b) && b[i+n] == marker {
		n++
	}
	return n
}

func atLineStart(b []byte, i int) bool {
	return i == 0 || b[i-1] == '\n'
}

// nextLine returns the offset just past the line break following i.
func nextLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}
	return i + 1
}

func inSpans(spans []Span, i int) bool {
	for _, s := range spans {
		if s.Contains(i) {
			return true
		}
	}
	return false
}

func skipSpan(spans []Span, i int) int {
	for _, s := range spans {
		if s.Contains(i) {
			return s.End
		}
	}
	return i + 1
}

func trimASCIISpace(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t' || s[start] == '\r') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}
