package render

import (
	"strings"
	"testing"

	"resume-builder/internal/domain"
	"resume-builder/internal/theme"
)

func TestRenderHTMLIsSelfContained(t *testing.T) {
	for _, tpl := range theme.All() {
		t.Run(tpl.ID, func(t *testing.T) {
			out, err := RenderHTML(sampleDocument(), tpl)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			html := string(out)
			for _, forbidden := range []string{"<link", "<script", "src=", "@import", "resume-preview"} {
				if strings.Contains(html, forbidden) {
					t.Errorf("export contains %q", forbidden)
				}
			}
			for _, expected := range []string{"<style>", ".tpl-" + tpl.ID, "Jane Doe", "Staff Engineer", "Cut p99 latency by 40%", "MSc in Computer Science"} {
				if !strings.Contains(html, expected) {
					t.Errorf("export misses %q", expected)
				}
			}
		})
	}
}

func TestRenderHTMLOmitsEmptySections(t *testing.T) {
	tpl, _ := theme.Lookup("modern")
	out, err := RenderHTML(domain.NewDocument(), tpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, heading := range []string{">Summary<", ">Experience<", ">Education<", ">Skills<", ">Projects<"} {
		if strings.Contains(html, heading) {
			t.Errorf("empty document rendered section %s", heading)
		}
	}
	if !strings.Contains(html, "Your Name") {
		t.Error("missing name placeholder")
	}
}

func TestRenderHTMLEscapesInput(t *testing.T) {
	tpl, _ := theme.Lookup("minimal")
	d := domain.NewDocument()
	d.Summary.Text = `<script>alert("x")</script>`
	out, err := RenderHTML(d, tpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Error("user input was not escaped")
	}
}

func TestRenderPreviewHasCaptureSurface(t *testing.T) {
	tpl, _ := theme.Lookup("creative")
	out, err := RenderPreview(sampleDocument(), tpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `id="resume-preview"`) {
		t.Error("preview has no capture surface")
	}
	if !strings.Contains(string(out), tpl.PreviewClasses()) {
		t.Error("preview root does not carry the template classes")
	}
}
