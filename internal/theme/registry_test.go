package theme

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistryHasFourTemplates(t *testing.T) {
	expected := []string{"modern", "professional", "creative", "minimal"}
	ids := IDs()
	if len(ids) != len(expected) {
		t.Fatalf("expected %d templates, got %v", len(expected), ids)
	}
	for i, id := range expected {
		if ids[i] != id {
			t.Errorf("template %d = %q, expected %q", i, ids[i], id)
		}
	}
}

func TestLookup(t *testing.T) {
	tpl, err := Lookup("creative")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if tpl.Name != "Creative" {
		t.Errorf("name = %q", tpl.Name)
	}

	if _, err := Lookup("fancy"); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestBulletGlyphs(t *testing.T) {
	expected := map[string]string{"modern": "•", "professional": "•", "creative": "○", "minimal": "-"}
	for id, glyph := range expected {
		tpl, _ := Lookup(id)
		if got := tpl.DocxStyle().Bullet; got != glyph {
			t.Errorf("%s bullet = %q, expected %q", id, got, glyph)
		}
	}
}

// The three style expressions must agree with the record they come from.
func TestDerivedStylesAgree(t *testing.T) {
	for _, tpl := range All() {
		t.Run(tpl.ID, func(t *testing.T) {
			css := tpl.CSS()
			if !strings.Contains(css, ".tpl-"+tpl.ID) {
				t.Error("css is not scoped to the template class")
			}
			if !strings.Contains(css, tpl.Style.HeadingColor) {
				t.Error("css does not carry the heading color")
			}
			if !strings.Contains(css, `content: "`+tpl.Style.Bullet+`"`) {
				t.Error("css does not carry the bullet glyph")
			}

			ds := tpl.DocxStyle()
			if "#"+ds.HeadingColor != tpl.Style.HeadingColor {
				t.Errorf("docx heading color %q does not match %q", ds.HeadingColor, tpl.Style.HeadingColor)
			}
			if strings.ContainsAny(ds.Font, `,'"`) {
				t.Errorf("docx font %q should be a single family", ds.Font)
			}

			if !strings.Contains(tpl.PreviewClasses(), "tpl-"+tpl.ID) {
				t.Error("preview classes miss the template class")
			}
		})
	}
}

func TestPreviewClassesModifiers(t *testing.T) {
	pro, _ := Lookup("professional")
	classes := pro.PreviewClasses()
	for _, c := range []string{"header-center", "headings-upper", "headings-ruled", "skills-tags"} {
		if !strings.Contains(classes, c) {
			t.Errorf("professional classes %q miss %q", classes, c)
		}
	}
	if primaryFont(pro.Style.FontFamily) != "Georgia" {
		t.Errorf("primary font = %q", primaryFont(pro.Style.FontFamily))
	}
}
