// Package photo encodes uploaded profile images as data URIs.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultLimit is the largest accepted upload.
const DefaultLimit int64 = 2 << 20

// ErrEmpty is returned for a zero-length upload.
var ErrEmpty = errors.New("photo: empty upload")

// UnsupportedTypeError is returned when the upload is not an image.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("photo: unsupported type %s", e.MIME)
}

// TooLargeError is returned when the upload exceeds the limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("photo: upload exceeds %d bytes", e.Limit)
}

// EncodeDataURI reads at most limit bytes from r, sniffs the content type
// and returns a data:<mime>;base64 URI. A limit of 0 or less uses
// DefaultLimit.
func EncodeDataURI(r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("photo: read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > limit {
		return "", &TooLargeError{Limit: limit}
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", &UnsupportedTypeError{MIME: mtype.String()}
	}

	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mtype.String()) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(mtype.String())
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String(), nil
}

// EncodeBytes is EncodeDataURI for an in-memory upload.
func EncodeBytes(data []byte, limit int64) (string, error) {
	return EncodeDataURI(bytes.NewReader(data), limit)
}
