package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG: 1x1 transparent pixel.
var pngPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func TestEncodeDataURI_PNG(t *testing.T) {
	uri, err := EncodeDataURI(bytes.NewReader(pngPixel), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngPixel, decoded)
}

func TestEncodeDataURI_RejectsText(t *testing.T) {
	_, err := EncodeBytes([]byte("hello, not an image"), 0)
	require.Error(t, err)

	var typeErr *UnsupportedTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.True(t, strings.HasPrefix(typeErr.MIME, "text/plain"))
}

func TestEncodeDataURI_Empty(t *testing.T) {
	_, err := EncodeBytes(nil, 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEncodeDataURI_TooLarge(t *testing.T) {
	_, err := EncodeBytes(pngPixel, int64(len(pngPixel)-1))
	var sizeErr *TooLargeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, int64(len(pngPixel)-1), sizeErr.Limit)

	_, err = EncodeBytes(pngPixel, int64(len(pngPixel)))
	assert.NoError(t, err)
}
