// Package media validates and normalises uploaded images before they reach
// file storage.
package media

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

// Upload limits, per image purpose.
const (
	AvatarMaxBytes   = 2 << 20
	AvatarMaxSide    = 512
	CoverArtMaxBytes = 5 << 20
	CoverArtMaxSide  = 1024
)

// Image is a processed upload ready to be stored.
type Image struct {
	Data        []byte
	Ext         string
	ContentType string
}

// formats maps a detected upload type to how it is stored. Types without
// a matching encoder are stored as PNG.
var formats = map[string]struct {
	format      imaging.Format
	ext         string
	contentType string
}{
	"image/jpeg": {imaging.JPEG, "jpg", "image/jpeg"},
	"image/png":  {imaging.PNG, "png", "image/png"},
	"image/gif":  {imaging.GIF, "gif", "image/gif"},
	"image/webp": {imaging.PNG, "png", "image/png"},
	"image/bmp":  {imaging.PNG, "png", "image/png"},
	"image/tiff": {imaging.PNG, "png", "image/png"},
}

// Process reads at most maxBytes from r, checks that the content is an
// image, and scales it down to fit a maxSide square. Images already
// small enough are re-encoded but not scaled.
func Process(r io.Reader, maxBytes int64, maxSide int) (*Image, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.Invalid("No file selected")
	}
	if int64(len(raw)) > maxBytes {
		return nil, domain.Invalid(fmt.Sprintf("File must be less than %dMB", maxBytes>>20))
	}

	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, domain.Invalid("File must be an image")
	}
	f, ok := formats[mt.String()]
	if !ok {
		return nil, domain.Invalid("Unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.Invalid("File must be an image")
	}
	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f.format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return &Image{Data: buf.Bytes(), Ext: f.ext, ContentType: f.contentType}, nil
}
