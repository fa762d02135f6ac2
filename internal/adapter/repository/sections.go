package repository

import (
	"encoding/json"
	"fmt"

	"resume-builder/internal/domain"
)

// sectionColumns holds a document split into one JSON value per section,
// matching the resume_drafts columns.
type sectionColumns struct {
	Personal   []byte
	Summary    []byte
	Experience []byte
	Education  []byte
	Skills     []byte
	Projects   []byte
}

func encodeSections(doc domain.Document) (sectionColumns, error) {
	var c sectionColumns
	fields := []struct {
		dst *[]byte
		v   interface{}
	}{
		{&c.Personal, doc.Personal},
		{&c.Summary, doc.Summary},
		{&c.Experience, doc.Experience},
		{&c.Education, doc.Education},
		{&c.Skills, doc.Skills},
		{&c.Projects, doc.Projects},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return c, fmt.Errorf("encoding section: %w", err)
		}
		*f.dst = b
	}
	return c, nil
}

func (c sectionColumns) decode() (domain.Document, error) {
	var doc domain.Document
	fields := []struct {
		name string
		src  []byte
		v    interface{}
	}{
		{"personal", c.Personal, &doc.Personal},
		{"summary", c.Summary, &doc.Summary},
		{"experience", c.Experience, &doc.Experience},
		{"education", c.Education, &doc.Education},
		{"skills", c.Skills, &doc.Skills},
		{"projects", c.Projects, &doc.Projects},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.v); err != nil {
			return doc, fmt.Errorf("decoding %s: %w", f.name, err)
		}
	}
	// rows written before a section existed still satisfy the one-row rule
	if err := doc.Normalize(); err != nil {
		return doc, err
	}
	return doc, nil
}
