// Package storage persists uploaded post images and hands back the URL they are served from.
package storage

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrNotImage = errors.New("upload is not a supported image")

// allowed image types and the extension stored files get
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

type ImageStore interface {
	// Save stores the image and returns the URL clients use to fetch it.
	Save(ctx context.Context, r io.Reader) (string, error)
	// Delete removes an image previously returned by Save. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
	Driver() string
}

// sniffed is an upload whose type has been detected from its first bytes.
type sniffed struct {
	contentType string
	ext         string
	body        io.Reader
}

// sniff reads enough of r to detect the image type without buffering the whole file.
func sniff(r io.Reader) (sniffed, error) {
	br := bufio.NewReaderSize(r, 3072)

	head, err := br.Peek(3072)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return sniffed{}, err
	}
	if len(head) == 0 {
		return sniffed{}, ErrNotImage
	}

	mt := mimetype.Detect(head)
	contentType, _, _ := strings.Cut(mt.String(), ";")

	ext, ok := imageExtensions[contentType]
	if !ok {
		return sniffed{}, ErrNotImage
	}

	return sniffed{contentType: contentType, ext: ext, body: br}, nil
}

func newObjectName(ext string) string {
	return uuid.NewString() + ext
}
