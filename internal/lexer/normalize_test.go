package lexer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func withBOMBytes(rest string) []byte {
	return append(append([]byte{}, bomUTF8...), []byte(rest)...)
}

func TestNormalizeStripsBOM(t *testing.T) {
	assert.Equal(t, []byte("hello"), normalize(withBOMBytes("hello")))
	assert.Equal(t, []byte("hello"), normalize([]byte("hello")))
}

func TestNormalizeAppliesNFC(t *testing.T) {
	nfd := "café" // e + combining acute accent (NFD)
	result := normalize([]byte(nfd))
	assert.Equal(t, "café", string(result)) // é in NFC
	assert.True(t, norm.NFC.IsNormal(result))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	input := withBOMBytes("café")
	first := normalize(input)
	second := normalize(first)
	assert.True(t, bytes.Equal(first, second))
}

func TestLexerNewNormalizesInputTransparently(t *testing.T) {
	l := New(string(withBOMBytes("x = 1\n")), "t.src")
	tok := l.NextToken()
	assert.Equal(t, "x", tok.Literal)
}
