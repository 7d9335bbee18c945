package dns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeName(t *testing.T) {
	b, err := EncodeName("google.com")
	require.NoError(t, err)
	exp := []byte{6, 'g', 'o', 'o', 'g', 'l', 'e', 3, 'c', 'o', 'm', 0}
	assert.Equal(t, exp, b)
}

func TestEncodeNameTrailingDot(t *testing.T) {
	b, err := EncodeName("example.com.")
	require.NoError(t, err)
	exp := []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	assert.Equal(t, exp, b)
}

func TestEncodeNameRoot(t *testing.T) {
	b, err := EncodeName("")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, b)
}

func TestEncodeNameLabelTooLong(t *testing.T) {
	long := strings.Repeat("a", 64)
	_, err := EncodeName(long + ".com")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindMalformed, perr.Kind)
}

func TestEncodeNameTotalTooLong(t *testing.T) {
	var labels []string
	for range 10 {
		labels = append(labels, strings.Repeat("a", 30))
	}
	_, err := EncodeName(strings.Join(labels, "."))
	require.Error(t, err)
}

func TestDecodeQuestionNameUncompressed(t *testing.T) {
	msg := []byte{3, 'w', 'w', 'w', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	off := 0
	n, err := decodeQuestionName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", n)
	assert.Equal(t, len(msg), off)
}

func TestDecodeQuestionNameRejectsCompressionPointer(t *testing.T) {
	msg := []byte{0xC0, 0x00}
	off := 0
	_, err := decodeQuestionName(msg, &off)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindUnsupported, perr.Kind)
}

func TestDecodeQuestionNameTruncated(t *testing.T) {
	msg := []byte{3, 'w', 'w'}
	off := 0
	_, err := decodeQuestionName(msg, &off)
	require.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "example.com", NormalizeName("Example.COM."))
}
