package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	apperrors "resume-builder/internal/errors"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// A4 is 210mm x 297mm.
const (
	a4WidthMM  = 210
	a4HeightMM = 297
)

var (
	ErrEmptyCapture = apperrors.ExportFailed("captured preview is empty", nil)
	// ErrCaptureUnavailable means the browser could not be started or lost
	// the page while capturing. Another attempt may succeed.
	ErrCaptureUnavailable = apperrors.ExportFailed("preview surface is not available for capture", nil)
	// ErrNoPreviewSurface means the page loaded without the capture element.
	// The same markup fails the same way, so it is not retried.
	ErrNoPreviewSurface = apperrors.ExportFailed("page has no preview surface", nil)
)

// RasterPDF turns a PNG capture of the preview surface into an image-only
// PDF with one A4 page per page-height slice of the bitmap.
func RasterPDF(capture []byte) ([]byte, error) {
	pages, err := Paginate(capture)
	if err != nil {
		return nil, err
	}
	return AssemblePDF(pages)
}

// Paginate decodes a PNG and cuts it into slices with A4 proportions. The
// last slice is padded with white to a full page. A remainder shorter than
// a fiftieth of a page is treated as capture rounding and dropped.
func Paginate(capture []byte) ([]image.Image, error) {
	src, err := png.Decode(bytes.NewReader(capture))
	if err != nil {
		return nil, apperrors.ExportFailed("decoding preview capture", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyCapture
	}

	pageH := (b.Dx()*a4HeightMM + a4WidthMM/2) / a4WidthMM
	var pages []image.Image
	for y := b.Min.Y; y < b.Max.Y; y += pageH {
		remaining := b.Max.Y - y
		if len(pages) > 0 && remaining < pageH/50 {
			break
		}
		page := image.NewRGBA(image.Rect(0, 0, b.Dx(), pageH))
		draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		h := min(remaining, pageH)
		draw.Draw(page, image.Rect(0, 0, b.Dx(), h), src, image.Pt(b.Min.X, y), draw.Over)
		pages = append(pages, page)
	}
	return pages, nil
}

// AssemblePDF places each bitmap on its own A4 page. Bitmaps cut by
// Paginate have A4 proportions, so they fill the page.
func AssemblePDF(pages []image.Image) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyCapture
	}
	imgs := make([]io.Reader, 0, len(pages))
	for i, p := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, p); err != nil {
			return nil, apperrors.ExportFailed(fmt.Sprintf("encoding page %d", i+1), err)
		}
		imgs = append(imgs, &buf)
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = types.PaperSize["A4"]
	imp.PageSize = "A4"
	imp.Pos = types.Center
	imp.Scale = 1.0

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, imgs, imp, nil); err != nil {
		return nil, apperrors.ExportFailed("assembling pdf", err)
	}
	return out.Bytes(), nil
}
