package model

import (
	_ "embed"
	"encoding/json"
	"strings"

	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema []byte

var compiledSchema = mustCompile(resumeSchema)

func mustCompile(b []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic("model: invalid resume schema: " + err.Error())
	}
	return s
}

// ValidateDocument checks a normalized document against the resume schema.
func ValidateDocument(doc domain.Document) error {
	return validateSchema(gojsonschema.NewGoLoader(doc))
}

// ValidateJSON checks a raw resume document exactly as stored, without
// normalizing skill levels or empty sections.
func ValidateJSON(raw []byte) error {
	if !json.Valid(raw) {
		return apperrors.InvalidInput("document is not valid JSON", nil)
	}
	return validateSchema(gojsonschema.NewBytesLoader(raw))
}

func validateSchema(doc gojsonschema.JSONLoader) error {
	res, err := compiledSchema.Validate(doc)
	if err != nil {
		return apperrors.InvalidInput("document could not be read", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return apperrors.InvalidInput("schema validation failed: "+strings.Join(msgs, "; "), nil)
}
