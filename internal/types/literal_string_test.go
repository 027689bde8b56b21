package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestNewLiteralStringNormalizesToNFC(t *testing.T) {
	nfc := "café" // precomposed é
	nfd := norm.NFD.String(nfc)
	if nfc == nfd {
		t.Fatal("test fixture is not actually NFC/NFD-distinct on this platform")
	}

	a := NewLiteralString(nfc)
	b := NewLiteralString(nfd)

	assert.True(t, a.StructurallyEquivalent(b), "NFC and NFD encodings of the same text must denote the same singleton type")
	assert.Equal(t, a.Value, b.Value)
}

func TestLiteralStringIsNotPrimitiveString(t *testing.T) {
	lit := NewLiteralString("ok")
	assert.False(t, lit.StructurallyEquivalent(String))
}
