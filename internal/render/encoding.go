package render

import (
	"strings"

	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"
)

type Encoding string

const (
	EncodingPDF  Encoding = "pdf"
	EncodingDOCX Encoding = "docx"
	EncodingHTML Encoding = "html"
)

var ErrUnknownEncoding = apperrors.InvalidInput("unknown export encoding", nil)

func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(s))); e {
	case EncodingPDF, EncodingDOCX, EncodingHTML:
		return e, nil
	}
	return "", apperrors.InvalidInput("unknown export encoding "+s, ErrUnknownEncoding)
}

func (e Encoding) ContentType() string {
	switch e {
	case EncodingPDF:
		return "application/pdf"
	case EncodingDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case EncodingHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

func (e Encoding) Extension() string { return "." + string(e) }

// Filename derives "{first}_{last}_{template}" plus the extension. Blank name
// parts are dropped and whitespace runs collapse to a single underscore.
func Filename(doc domain.Document, templateID string, enc Encoding) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{doc.Personal.FirstName, doc.Personal.LastName} {
		if f := strings.Fields(p); len(f) > 0 {
			parts = append(parts, strings.Join(f, "_"))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "Resume")
	}
	parts = append(parts, templateID)
	return unsafeFilenameChars.Replace(strings.Join(parts, "_")) + enc.Extension()
}

var unsafeFilenameChars = strings.NewReplacer("/", "_", `\`, "_", `"`, "", ";", "")
