package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseGroup tokenizes the content of src, which must start with the opener
// of the given family.
func parseGroup(t *testing.T, src string, open, close byte) []Token {
	t.Helper()
	sc := &scanner{src: src, pos: 1}
	tokens, err := parseNested(sc, open, close)
	require.NoError(t, err)
	return tokens
}

func TestParseNestedFlat(t *testing.T) {
	tokens := parseGroup(t, "(a=1 b=2)", '(', ')')
	require.Len(t, tokens, 2)
	assert.Equal(t, "a=1", tokens[0].Text)
	assert.Equal(t, "b=2", tokens[1].Text)
}

func TestParseNestedRecursesOnOwnFamily(t *testing.T) {
	tokens := parseGroup(t, "(a=(1, 2) b=3)", '(', ')')
	require.Len(t, tokens, 3)
	assert.Equal(t, "a=", tokens[0].Text)
	require.True(t, tokens[1].IsGroup())
	require.Len(t, tokens[1].Children, 2)
	assert.Equal(t, "1,", tokens[1].Children[0].Text)
	assert.Equal(t, "2", tokens[1].Children[1].Text)
	assert.Equal(t, "b=3", tokens[2].Text)
}

func TestParseNestedOtherFamiliesAreWordCharacters(t *testing.T) {
	tokens := parseGroup(t, "(a=[1,2])", '(', ')')
	require.Len(t, tokens, 1)
	assert.Equal(t, "a=[1,2]", tokens[0].Text)
}

func TestParseNestedQuotesAreWordCharacters(t *testing.T) {
	tokens := parseGroup(t, "(color='r',)", '(', ')')
	require.Len(t, tokens, 1)
	assert.Equal(t, "color='r',", tokens[0].Text)
}

func TestParseNestedUnterminated(t *testing.T) {
	sc := &scanner{src: "(a=1", pos: 1}
	_, err := parseNested(sc, '(', ')')
	assert.ErrorContains(t, err, "unterminated")
}

func TestParseNestedPlotQuotedStringsAtomic(t *testing.T) {
	sc := &scanner{src: "[title='a b' x=1]", pos: 1}
	tokens, err := parseNestedPlot(sc)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "title=", tokens[0].Text)
	assert.Equal(t, "'a b'", tokens[1].Text)
	assert.Equal(t, "x=1", tokens[2].Text)
}

func TestParseNestedPlotNesting(t *testing.T) {
	sc := &scanner{src: "[xticks=[0, 1]]", pos: 1}
	tokens, err := parseNestedPlot(sc)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "xticks=", tokens[0].Text)
	require.True(t, tokens[1].IsGroup())
	require.Len(t, tokens[1].Children, 2)
	assert.Equal(t, "0,", tokens[1].Children[0].Text)
}

func TestParseNestedPlotRejectsDisallowedCharacter(t *testing.T) {
	sc := &scanner{src: "[x=\xc2\xa7]", pos: 1}
	_, err := parseNestedPlot(sc)
	assert.ErrorContains(t, err, "not allowed in plot options")
}

func TestParseNestedPlotParensAreAllowedCharacters(t *testing.T) {
	// Parentheses are plain word characters inside plot brackets; whitespace
	// inside a tuple splits it into tokens for later reconstruction.
	sc := &scanner{src: "[fig_size=(3, 4)]", pos: 1}
	tokens, err := parseNestedPlot(sc)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "fig_size=(3,", tokens[0].Text)
	assert.Equal(t, "4)", tokens[1].Text)
}

func TestScanQuoted(t *testing.T) {
	t.Run("keeps quotes and handles escapes", func(t *testing.T) {
		sc := &scanner{src: `'a\'b' rest`}
		s, err := scanQuoted(sc)
		require.NoError(t, err)
		assert.Equal(t, `'a\'b'`, s)
	})

	t.Run("unterminated", func(t *testing.T) {
		sc := &scanner{src: `"oops`}
		_, err := scanQuoted(sc)
		assert.ErrorContains(t, err, "unterminated string")
	})
}
