package theme

import (
	"bytes"
	"strings"
	"text/template"
)

// PreviewClasses returns the class list for the resume root element. The
// modifiers select the rules emitted by CSS.
func (t Template) PreviewClasses() string {
	s := t.Style
	classes := []string{"resume", "tpl-" + t.ID, "header-" + s.HeaderAlign}
	if s.HeadingCase == "uppercase" {
		classes = append(classes, "headings-upper")
	}
	if s.HeadingRule {
		classes = append(classes, "headings-ruled")
	}
	if s.HeaderBand {
		classes = append(classes, "header-band")
	}
	if s.SkillBars {
		classes = append(classes, "skills-bars")
	} else {
		classes = append(classes, "skills-tags")
	}
	return strings.Join(classes, " ")
}

// DocxStyle is the style table consumed by the word-processor exporter.
type DocxStyle struct {
	Font         string
	TextColor    string // rrggbb, no leading '#'
	HeadingColor string
	AccentColor  string
	Bullet       string
	Centered     bool
	Uppercase    bool
}

func (t Template) DocxStyle() DocxStyle {
	s := t.Style
	return DocxStyle{
		Font:         primaryFont(s.FontFamily),
		TextColor:    strings.TrimPrefix(s.TextColor, "#"),
		HeadingColor: strings.TrimPrefix(s.HeadingColor, "#"),
		AccentColor:  strings.TrimPrefix(s.AccentColor, "#"),
		Bullet:       s.Bullet,
		Centered:     s.HeaderAlign == "center",
		Uppercase:    s.HeadingCase == "uppercase",
	}
}

func primaryFont(stack string) string {
	first, _, _ := strings.Cut(stack, ",")
	return strings.Trim(strings.TrimSpace(first), `'"`)
}

var cssTemplate = template.Must(template.New("css").Parse(`
.tpl-{{.ID}} { font-family: {{.Style.FontFamily}}; color: {{.Style.TextColor}}; }
.tpl-{{.ID}} .resume-name { color: {{.Style.HeadingColor}}; }
.tpl-{{.ID}} .resume-title, .tpl-{{.ID}} .entry-dates, .tpl-{{.ID}} .entry-sub { color: {{.Style.MutedColor}}; }
.tpl-{{.ID}} .section-heading { color: {{.Style.HeadingColor}};{{if .Style.HeadingRule}} border-bottom: 2px solid {{.Style.AccentColor}}; padding-bottom: 2px;{{end}}{{if eq .Style.HeadingCase "uppercase"}} text-transform: uppercase; letter-spacing: 0.06em;{{end}} }
.tpl-{{.ID}} .bullets li::before { content: "{{.Style.Bullet}}"; color: {{.Style.AccentColor}}; }
.tpl-{{.ID}} .skill-fill { background: {{.Style.AccentColor}}; }
.tpl-{{.ID}} .tag { border: 1px solid {{.Style.AccentColor}}; color: {{.Style.TextColor}}; }
.tpl-{{.ID}} a { color: {{.Style.AccentColor}}; }
{{- if eq .Style.HeaderAlign "center"}}
.tpl-{{.ID}} .resume-header { text-align: center; }
.tpl-{{.ID}} .resume-contact { justify-content: center; }
{{- end}}
{{- if .Style.HeaderBand}}
.tpl-{{.ID}} .resume-header { background: {{.Style.AccentColor}}; margin: -12mm -14mm 6mm; padding: 10mm 14mm; }
.tpl-{{.ID}} .resume-header .resume-name, .tpl-{{.ID}} .resume-header .resume-title, .tpl-{{.ID}} .resume-header .resume-contact { color: #ffffff; }
{{- end}}
`))

// CSS renders the template-specific stylesheet.
func (t Template) CSS() string {
	var buf bytes.Buffer
	if err := cssTemplate.Execute(&buf, t); err != nil {
		// the template is static and every field is a plain string
		panic(err)
	}
	return buf.String()
}

// BaseCSS is the structural stylesheet shared by every template.
const BaseCSS = `
* { box-sizing: border-box; }
body { margin: 0; background: #ffffff; }
.resume { width: 210mm; min-height: 297mm; padding: 12mm 14mm; font-size: 10.5pt; line-height: 1.4; background: #ffffff; }
.resume-header { margin-bottom: 6mm; }
.resume-name { margin: 0; font-size: 22pt; font-weight: 700; }
.resume-title { margin: 2px 0 0; font-size: 12pt; }
.resume-contact { display: flex; flex-wrap: wrap; gap: 4px 10px; margin-top: 6px; font-size: 9.5pt; }
.resume-section { margin-bottom: 5mm; }
.section-heading { margin: 0 0 6px; font-size: 12pt; font-weight: 700; }
.entry { margin-bottom: 8px; break-inside: avoid; }
.entry-head { display: flex; justify-content: space-between; gap: 8px; }
.entry-title { font-weight: 700; }
.entry-dates { white-space: nowrap; font-size: 9.5pt; }
.bullets { list-style: none; margin: 4px 0 0; padding: 0; }
.bullets li { position: relative; padding-left: 14px; }
.bullets li::before { position: absolute; left: 0; }
.skills { display: flex; flex-wrap: wrap; gap: 6px 16px; }
.skills-bars .skill { width: 45%; }
.skill-name { display: flex; justify-content: space-between; font-size: 9.5pt; }
.skill-bar { height: 5px; background: #e5e7eb; border-radius: 3px; overflow: hidden; }
.skill-fill { height: 100%; }
.skills-tags .skill-bar { display: none; }
.skills-tags .skill { padding: 2px 8px; border: 1px solid #d1d5db; border-radius: 10px; }
.tags { display: flex; flex-wrap: wrap; gap: 4px; margin-top: 4px; }
.tag { padding: 1px 6px; border-radius: 8px; font-size: 8.5pt; }
a { text-decoration: none; }
`
