// Package theme holds the fixed template registry. Each template has a
// single Style record; the preview classes, the word-processor style table
// and the HTML stylesheet are all derived from it.
package theme

import (
	apperrors "resume-builder/internal/errors"
)

const DefaultID = "modern"

type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Style       Style  `json:"-"`
}

// Style is the one source of visual truth for a template.
type Style struct {
	FontFamily   string // CSS font stack; the first family is used in documents
	TextColor    string // #rrggbb
	HeadingColor string // #rrggbb
	AccentColor  string // #rrggbb
	MutedColor   string // #rrggbb
	Bullet       string // glyph prefixed to description lines
	HeaderAlign  string // left | center
	HeadingCase  string // none | uppercase
	HeadingRule  bool   // underline section headings
	HeaderBand   bool   // solid accent band behind the name block
	SkillBars    bool   // bars with proportional fill instead of tags
}

var registry = []Template{
	{
		ID:          "modern",
		Name:        "Modern",
		Description: "Clean and contemporary design with a focus on skills and experience.",
		Style: Style{
			FontFamily:   "Helvetica, Arial, sans-serif",
			TextColor:    "#1f2937",
			HeadingColor: "#2563eb",
			AccentColor:  "#2563eb",
			MutedColor:   "#6b7280",
			Bullet:       "•",
			HeaderAlign:  "left",
			HeadingCase:  "uppercase",
			HeadingRule:  true,
			SkillBars:    true,
		},
	},
	{
		ID:          "professional",
		Name:        "Professional",
		Description: "Traditional layout ideal for corporate and executive positions.",
		Style: Style{
			FontFamily:   "Georgia, 'Times New Roman', serif",
			TextColor:    "#111827",
			HeadingColor: "#1f2937",
			AccentColor:  "#374151",
			MutedColor:   "#4b5563",
			Bullet:       "•",
			HeaderAlign:  "center",
			HeadingCase:  "uppercase",
			HeadingRule:  true,
		},
	},
	{
		ID:          "creative",
		Name:        "Creative",
		Description: "Bold design with visual elements for creative industry roles.",
		Style: Style{
			FontFamily:   "Verdana, Geneva, sans-serif",
			TextColor:    "#1f2937",
			HeadingColor: "#7c3aed",
			AccentColor:  "#7c3aed",
			MutedColor:   "#6b7280",
			Bullet:       "○",
			HeaderAlign:  "left",
			HeadingCase:  "none",
			HeaderBand:   true,
			SkillBars:    true,
		},
	},
	{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Simple and elegant design that focuses on content.",
		Style: Style{
			FontFamily:   "Arial, Helvetica, sans-serif",
			TextColor:    "#111827",
			HeadingColor: "#111827",
			AccentColor:  "#9ca3af",
			MutedColor:   "#6b7280",
			Bullet:       "-",
			HeaderAlign:  "left",
			HeadingCase:  "none",
		},
	},
}

var ErrUnknownTemplate = apperrors.InvalidInput("unknown template", nil)

// All returns the registry in display order.
func All() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

func IDs() []string {
	ids := make([]string, 0, len(registry))
	for _, t := range registry {
		ids = append(ids, t.ID)
	}
	return ids
}

func Lookup(id string) (Template, error) {
	for _, t := range registry {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, apperrors.InvalidInput("unknown template "+id, ErrUnknownTemplate)
}
