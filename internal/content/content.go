// Package content provides the immutable text value the rendering and
// migration engines operate on. A Content is a view over shared byte
// storage: slicing and appending never copy the underlying data, and every
// operation returns a new value. Copies happen only when a caller
// materializes the final output with Bytes or String.
package content

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Content is an immutable sequence of text segments. The zero value is the
// empty content and is ready to use.
type Content struct {
	segs [][]byte
	size int
}

// Empty is the canonical empty content.
var Empty = Content{}

// FromString builds a Content backed by the string's bytes.
func FromString(s string) Content {
	if s == "" {
		return Content{}
	}
	b := []byte(s)
	return Content{segs: [][]byte{b}, size: len(b)}
}

// FromBytes builds a Content that shares the given slice. The caller must
// not mutate b afterwards.
func FromBytes(b []byte) Content {
	if len(b) == 0 {
		return Content{}
	}
	return Content{segs: [][]byte{b}, size: len(b)}
}

// Len returns the logical size in bytes.
func (c Content) Len() int { return c.size }

// IsEmpty reports whether the content has zero length.
func (c Content) IsEmpty() bool { return c.size == 0 }

// Bytes materializes the content into a single contiguous slice. This is
// the only operation (besides String) that copies multi-segment storage.
func (c Content) Bytes() []byte {
	if len(c.segs) == 0 {
		return nil
	}
	if len(c.segs) == 1 {
		return c.segs[0]
	}
	out := make([]byte, 0, c.size)
	for _, s := range c.segs {
		out = append(out, s...)
	}
	return out
}

// String materializes the content as a string.
func (c Content) String() string { return string(c.Bytes()) }

// Equal reports whether two contents hold the same bytes.
func (c Content) Equal(other Content) bool {
	if c.size != other.size {
		return false
	}
	return bytes.Equal(c.Bytes(), other.Bytes())
}

// ByteAt returns the byte at offset i, or 0 when i is out of range.
func (c Content) ByteAt(i int) byte {
	if i < 0 || i >= c.size {
		return 0
	}
	for _, s := range c.segs {
		if i < len(s) {
			return s[i]
		}
		i -= len(s)
	}
	return 0
}

// HasPrefix reports whether the content starts with prefix.
func (c Content) HasPrefix(prefix string) bool {
	if len(prefix) > c.size {
		return false
	}
	return bytes.HasPrefix(c.Bytes(), []byte(prefix))
}

// Slice returns the view [from, to). Bounds outside [0, Len] are clamped;
// an inverted range yields the empty content. No bytes are copied.
func (c Content) Slice(from, to int) Content {
	if from < 0 {
		from = 0
	}
	if to > c.size {
		to = c.size
	}
	if from >= to {
		return Content{}
	}
	var out Content
	pos := 0
	for _, s := range c.segs {
		segStart, segEnd := pos, pos+len(s)
		pos = segEnd
		if segEnd <= from {
			continue
		}
		if segStart >= to {
			break
		}
		lo, hi := 0, len(s)
		if from > segStart {
			lo = from - segStart
		}
		if to < segEnd {
			hi = to - segStart
		}
		out.segs = append(out.segs, s[lo:hi])
		out.size += hi - lo
	}
	return out
}

// Append returns the concatenation of c and others. Segment lists are
// joined; no storage is copied.
func (c Content) Append(others ...Content) Content {
	out := Content{segs: append([][]byte(nil), c.segs...), size: c.size}
	for _, o := range others {
		out.segs = append(out.segs, o.segs...)
		out.size += o.size
	}
	return out
}

// AppendString is shorthand for Append(FromString(s)).
func (c Content) AppendString(s string) Content {
	return c.Append(FromString(s))
}

// Index returns the offset of the first occurrence of sub at or after
// from, or -1 when absent.
func (c Content) Index(sub string, from int) int {
	if from < 0 {
		from = 0
	}
	if from > c.size {
		return -1
	}
	i := bytes.Index(c.Bytes()[from:], []byte(sub))
	if i < 0 {
		return -1
	}
	return from + i
}

// LastIndex returns the offset of the last occurrence of sub, or -1.
func (c Content) LastIndex(sub string) int {
	return bytes.LastIndex(c.Bytes(), []byte(sub))
}

// Test reports whether re matches anywhere in the content.
func (c Content) Test(re *regexp.Regexp) bool {
	return re.Match(c.Bytes())
}

// Match is one regexp match inside a Content.
type Match struct {
	Start  int
	End    int
	Groups []string // Groups[0] is the full match text
}

// Find returns the first match of re at or after from, or nil.
func (c Content) Find(re *regexp.Regexp, from int) *Match {
	if from < 0 {
		from = 0
	}
	if from > c.size {
		return nil
	}
	b := c.Bytes()
	loc := re.FindSubmatchIndex(b[from:])
	if loc == nil {
		return nil
	}
	m := &Match{Start: from + loc[0], End: from + loc[1]}
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			m.Groups = append(m.Groups, "")
			continue
		}
		m.Groups = append(m.Groups, string(b[from+loc[i]:from+loc[i+1]]))
	}
	return m
}

// FindLast returns the last match of re, or nil.
func (c Content) FindLast(re *regexp.Regexp) *Match {
	var last *Match
	pos := 0
	for {
		m := c.Find(re, pos)
		if m == nil {
			return last
		}
		last = m
		if m.End == m.Start {
			pos = m.End + 1
		} else {
			pos = m.End
		}
	}
}

// Cursor enumerates non-overlapping matches left to right, mirroring
// global-regexp iteration. The cursor materializes the content once and
// scans forward from the previous match on each call.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of c.
func (c Content) NewCursor() *Cursor {
	return &Cursor{buf: c.Bytes()}
}

// Next returns the next match of re, or nil when the content is exhausted.
func (cur *Cursor) Next(re *regexp.Regexp) *Match {
	if cur.pos > len(cur.buf) {
		return nil
	}
	loc := re.FindSubmatchIndex(cur.buf[cur.pos:])
	if loc == nil {
		cur.pos = len(cur.buf) + 1
		return nil
	}
	m := &Match{Start: cur.pos + loc[0], End: cur.pos + loc[1]}
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			m.Groups = append(m.Groups, "")
			continue
		}
		m.Groups = append(m.Groups, string(cur.buf[cur.pos+loc[i]:cur.pos+loc[i+1]]))
	}
	if m.End == m.Start {
		cur.pos = m.End + 1 // zero-width match, force progress
	} else {
		cur.pos = m.End
	}
	return m
}

// Pos returns the cursor's current byte offset.
func (cur *Cursor) Pos() int { return cur.pos }

// Escape returns a copy with a backslash inserted before every occurrence
// of any byte in chars.
func (c Content) Escape(chars string) Content {
	b := c.Bytes()
	var out []byte
	for i := 0; i < len(b); i++ {
		if strings.IndexByte(chars, b[i]) >= 0 {
			out = append(out, '\\')
		}
		out = append(out, b[i])
	}
	return FromBytes(out)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// HTMLEscape replaces &, <, > and " with their HTML entities.
func (c Content) HTMLEscape() Content {
	return FromString(htmlEscaper.Replace(c.String()))
}

// PadEnd pads the content on the right with spaces until its display
// width (rune count) reaches width. Content already at least that wide is
// returned unchanged.
func (c Content) PadEnd(width int) Content {
	n := c.Width()
	if n >= width {
		return c
	}
	return c.Append(FromString(strings.Repeat(" ", width-n)))
}

// Width returns the display width of the content in runes.
func (c Content) Width() int {
	n := 0
	for _, s := range c.segs {
		n += utf8.RuneCount(s)
	}
	return n
}

// TrimSpace returns the content with leading and trailing whitespace
// removed, as a sub-view (no copy).
func (c Content) TrimSpace() Content {
	b := c.Bytes()
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return c.Slice(start, end)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}
