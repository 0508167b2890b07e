package content

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlice_SharesStorage(t *testing.T) {
	backing := []byte("hello, world")
	c := FromBytes(backing)

	s := c.Slice(7, 12)
	require.Equal(t, "world", s.String())

	// A leaf slice must alias the original backing array, not a copy.
	got := s.Bytes()
	require.Equal(t, &backing[7], &got[0])
}

func TestSlice_ClampsBounds(t *testing.T) {
	c := FromString("abc")

	require.Equal(t, "abc", c.Slice(-5, 99).String())
	require.Equal(t, "", c.Slice(2, 1).String())
	require.Equal(t, "", c.Slice(10, 20).String())
	require.Equal(t, "c", c.Slice(2, 3).String())
}

func TestAppend_IsStructural(t *testing.T) {
	a := FromString("foo")
	b := FromString("bar")

	joined := a.Append(b, FromString("baz"))
	require.Equal(t, "foobarbaz", joined.String())
	require.Equal(t, 9, joined.Len())

	// Originals are untouched.
	require.Equal(t, "foo", a.String())
	require.Equal(t, "bar", b.String())
}

func TestSlice_AcrossSegments(t *testing.T) {
	c := FromString("abc").Append(FromString("def"), FromString("ghi"))

	require.Equal(t, "cdefg", c.Slice(2, 7).String())
	require.Equal(t, "def", c.Slice(3, 6).String())
}

func TestIndexAndLastIndex(t *testing.T) {
	c := FromString("ab").Append(FromString("cab"))

	require.Equal(t, 0, c.Index("ab", 0))
	require.Equal(t, 3, c.Index("ab", 1))
	require.Equal(t, -1, c.Index("ab", 4))
	require.Equal(t, 3, c.LastIndex("ab"))
	require.Equal(t, -1, c.LastIndex("zz"))
}

func TestByteAt_OutOfRangeIsZero(t *testing.T) {
	c := FromString("xy")

	require.Equal(t, byte('x'), c.ByteAt(0))
	require.Equal(t, byte('y'), c.ByteAt(1))
	require.Equal(t, byte(0), c.ByteAt(2))
	require.Equal(t, byte(0), c.ByteAt(-1))
}

func TestCursor_EnumeratesNonOverlapping(t *testing.T) {
	re := regexp.MustCompile(`a+`)
	cur := FromString("aa b aaa c a").NewCursor()

	m := cur.Next(re)
	require.NotNil(t, m)
	require.Equal(t, "aa", m.Groups[0])
	require.Equal(t, 0, m.Start)

	m = cur.Next(re)
	require.NotNil(t, m)
	require.Equal(t, "aaa", m.Groups[0])

	m = cur.Next(re)
	require.NotNil(t, m)
	require.Equal(t, "a", m.Groups[0])
	require.Equal(t, 12, m.End)

	require.Nil(t, cur.Next(re))
	require.Nil(t, cur.Next(re))
}

func TestFind_CaptureGroups(t *testing.T) {
	re := regexp.MustCompile(`<!-- (\w+):(start|end) -->`)
	c := FromString("x\n<!-- inputs:start -->\ny")

	m := c.Find(re, 0)
	require.NotNil(t, m)
	require.Equal(t, []string{"<!-- inputs:start -->", "inputs", "start"}, m.Groups)

	require.Nil(t, c.Find(re, m.End))
}

func TestFindLast(t *testing.T) {
	re := regexp.MustCompile(`\d+`)
	c := FromString("a1 b22 c333")

	m := c.FindLast(re)
	require.NotNil(t, m)
	require.Equal(t, "333", m.Groups[0])
}

func TestEscape(t *testing.T) {
	c := FromString("a|b`c|d")

	require.Equal(t, `a\|b`+"`"+`c\|d`, c.Escape("|").String())
	require.Equal(t, `a\|b\`+"`"+`c\|d`, c.Escape("|`").String())
}

func TestHTMLEscape(t *testing.T) {
	c := FromString(`<a href="x">&</a>`)
	require.Equal(t, "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;", c.HTMLEscape().String())
}

func TestPadEnd_RuneAware(t *testing.T) {
	require.Equal(t, "ab  ", FromString("ab").PadEnd(4).String())
	require.Equal(t, "abcd", FromString("abcd").PadEnd(2).String())
	// Multi-byte runes count as one column.
	require.Equal(t, "héllo ", FromString("héllo").PadEnd(6).String())
}

func TestTrimSpace_NoCopy(t *testing.T) {
	backing := []byte("  body \n")
	c := FromBytes(backing)

	trimmed := c.TrimSpace()
	require.Equal(t, "body", trimmed.String())
	got := trimmed.Bytes()
	require.Equal(t, &backing[2], &got[0])
}

func TestEqualAndEmpty(t *testing.T) {
	require.True(t, FromString("ab").Equal(FromString("a").Append(FromString("b"))))
	require.False(t, FromString("ab").Equal(FromString("ba")))
	require.True(t, Empty.IsEmpty())
	require.True(t, FromString("x").Slice(1, 1).IsEmpty())
}
