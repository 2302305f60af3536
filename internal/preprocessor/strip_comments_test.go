package preprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCommentsWithSpaces(t *testing.T) {
	src := "wire w; // trailing\nassign w = 1; /* mid */ wire v;\n"
	got := StripComments(src, ' ')

	want := "wire w; " + strings.Repeat(" ", len("// trailing")) + "\n" +
		"assign w = 1; " + strings.Repeat(" ", len("/* mid */")) + " wire v;\n"
	assert.Equal(t, want, got)
	// Same length: positions are preserved.
	assert.Equal(t, len(src), len(got))
}

func TestStripCommentsDeleting(t *testing.T) {
	src := "wire w; // trailing\nwire v; /* mid */ wire u;\n"
	got := StripComments(src, 0)

	assert.Equal(t, "wire w; \nwire v;  wire u;\n", got)
	// Newlines survive deletion.
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(got, "\n"))
}

func TestStripCommentsWithReplacementChar(t *testing.T) {
	got := StripComments("x /* ab */ y", '#')
	// Delimiters kept, contents replaced.
	assert.Equal(t, "x /*####*/ y", got)

	got = StripComments("x // ab", '#')
	assert.Equal(t, "x //###", got)
}

func TestStripCommentsMultilineBlock(t *testing.T) {
	got := StripComments("a /* one\ntwo */ b", 0)
	assert.Equal(t, "a \n b", got)
}

func TestStripCommentsLeavesStringsAlone(t *testing.T) {
	src := `x = "// not a comment"; // real`
	got := StripComments(src, 0)
	assert.Equal(t, `x = "// not a comment"; `, got)

	escaped := `x = "a\"b // still string";`
	assert.Equal(t, escaped, StripComments(escaped, 0))
}

func TestStripCommentsNoComments(t *testing.T) {
	src := "module m; endmodule\n"
	assert.Equal(t, src, StripComments(src, ' '))
}
