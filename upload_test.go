package imagestudio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingReader struct {
	io.Reader
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

func TestReadImage(t *testing.T) {
	r := &trackingReader{Reader: bytes.NewReader(pngBytes)}
	img, err := ReadImage(r, "image/png", "cat.png", MaxImageSize)
	require.NoError(t, err)
	assert.True(t, r.closed)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "cat.png", img.Name)
}

func TestReadImage_SniffsGenericType(t *testing.T) {
	img, err := ReadImage(bytes.NewReader(pngBytes), "application/octet-stream", "upload", 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
}

func TestReadImage_ClosesOnError(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("")}
	_, err := ReadImage(r, "image/png", "empty.png", MaxImageSize)
	assert.ErrorIs(t, err, ErrEmptyImageData)
	assert.True(t, r.closed)

	r = &trackingReader{Reader: bytes.NewReader(make([]byte, MaxImageSize+10))}
	_, err = ReadImage(r, "image/png", "huge.png", MaxImageSize)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.True(t, r.closed)

	r = &trackingReader{Reader: strings.NewReader("just some text")}
	_, err = ReadImage(r, "text/plain", "notes.txt", MaxImageSize)
	assert.ErrorIs(t, err, ErrInvalidMIMEType)
	assert.True(t, r.closed)
}

func TestReadImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o644))

	img, err := ReadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "photo.png", img.Name)

	_, err = ReadImageFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestGetMIMEType(t *testing.T) {
	assert.Equal(t, "image/jpeg", GetMIMEType("a/b/photo.JPG"))
	assert.Equal(t, "image/webp", GetMIMEType("x.webp"))
	assert.Equal(t, "image/png", GetMIMEType("noext"))
}

func TestReadImage_SniffedTextIsRejected(t *testing.T) {
	_, err := ReadImage(strings.NewReader("plain text"), "application/octet-stream", "photo.png", MaxImageSize)
	assert.ErrorIs(t, err, ErrInvalidMIMEType)
}

func TestReadImage_FallsBackToExtension(t *testing.T) {
	// Unrecognized binary content keeps the extension's type.
	img, err := ReadImage(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0xfe}), "", "photo.webp", MaxImageSize)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", img.MIMEType)
}

func TestReadImage_Limit(t *testing.T) {
	big := append(append([]byte{}, pngBytes...), make([]byte, 12<<20)...)

	_, err := ReadImage(bytes.NewReader(big), "image/png", "big.png", MaxImageSize)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	img, err := ReadImage(bytes.NewReader(big), "image/png", "big.png", 20<<20)
	require.NoError(t, err)
	assert.Len(t, img.Data, len(big))

	_, err = ReadImage(bytes.NewReader(pngBytes), "image/png", "small.png", 4)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestReadImage_RejectsGIF(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	_, err := ReadImage(bytes.NewReader(gif), "image/gif", "loop.gif", MaxImageSize)
	assert.ErrorIs(t, err, ErrInvalidMIMEType)
}
