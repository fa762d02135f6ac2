package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/theme"
)

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

	docxPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

	wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`
)

// RenderDOCX builds a WordprocessingML package for the document. Styles come
// from the template's DocxStyle; the package holds no external references.
func RenderDOCX(doc domain.Document, tpl theme.Template) ([]byte, error) {
	if err := checkLevels(doc); err != nil {
		return nil, err
	}
	style := tpl.DocxStyle()
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxPackageRels},
		{"word/_rels/document.xml.rels", docxDocumentRels},
		{"word/styles.xml", docxStyles(style)},
		{"word/document.xml", docxDocument(Project(doc), style)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func docxStyles(s theme.DocxStyle) string {
	caps := ""
	if s.Uppercase {
		caps = `<w:caps/>`
	}
	font := escape(s.Font)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles %[1]s>
<w:docDefaults>
<w:rPrDefault><w:rPr><w:rFonts w:ascii="%[2]s" w:hAnsi="%[2]s" w:cs="%[2]s"/><w:color w:val="%[3]s"/><w:sz w:val="21"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="60"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:color w:val="%[4]s"/><w:sz w:val="44"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Subtitle"><w:name w:val="Subtitle"/><w:basedOn w:val="Normal"/><w:rPr><w:sz w:val="24"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="240" w:after="80"/><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="%[5]s"/></w:pBdr></w:pPr><w:rPr><w:b/>%[6]s<w:color w:val="%[4]s"/><w:sz w:val="26"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="360" w:hanging="240"/></w:pPr></w:style>
</w:styles>`, wordNS, font, s.TextColor, s.HeadingColor, s.AccentColor, caps)
}

type docxRun struct {
	text   string
	bold   bool
	italic bool
}

type docxBody struct {
	strings.Builder
	centered bool
}

func (b *docxBody) para(styleID string, runs ...docxRun) {
	b.WriteString("<w:p>")
	if styleID != "" || b.centered {
		b.WriteString("<w:pPr>")
		if styleID != "" {
			fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, styleID)
		}
		if b.centered {
			b.WriteString(`<w:jc w:val="center"/>`)
		}
		b.WriteString("</w:pPr>")
	}
	for _, r := range runs {
		b.WriteString("<w:r>")
		if r.bold || r.italic {
			b.WriteString("<w:rPr>")
			if r.bold {
				b.WriteString("<w:b/>")
			}
			if r.italic {
				b.WriteString("<w:i/>")
			}
			b.WriteString("</w:rPr>")
		}
		fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t></w:r>`, escape(r.text))
	}
	b.WriteString("</w:p>")
}

func (b *docxBody) text(styleID, s string) { b.para(styleID, docxRun{text: s}) }

// headed writes an entry's first line: a bold title followed by the dates.
func (b *docxBody) headed(title, dates string) {
	runs := []docxRun{{text: title, bold: true}}
	if dates != "" {
		runs = append(runs, docxRun{text: "  " + dates, italic: true})
	}
	b.para("", runs...)
}

func docxDocument(v View, s theme.DocxStyle) string {
	var b docxBody

	b.centered = s.Centered
	b.text("Title", v.Name)
	if v.Title != "" {
		b.text("Subtitle", v.Title)
	}
	if line := v.ContactLine(); line != "" {
		b.text("", line)
	}
	b.centered = false

	if v.Summary != "" {
		b.text("Heading1", "Summary")
		for _, line := range splitLines(v.Summary) {
			b.text("", line)
		}
	}

	if len(v.Experience) > 0 {
		b.text("Heading1", "Experience")
		for _, e := range v.Experience {
			b.headed(e.Position, e.Dates)
			b.para("", docxRun{text: e.Company, italic: true})
			for _, line := range e.Bullets {
				b.text("ListBullet", s.Bullet+" "+line)
			}
		}
	}

	if len(v.Education) > 0 {
		b.text("Heading1", "Education")
		for _, e := range v.Education {
			b.headed(e.Degree, e.Dates)
			if e.Institution != "" {
				b.para("", docxRun{text: e.Institution, italic: true})
			}
			if e.GPA != "" {
				b.text("", e.GPA)
			}
		}
	}

	if len(v.Skills) > 0 {
		b.text("Heading1", "Skills")
		items := make([]string, 0, len(v.Skills))
		for _, sk := range v.Skills {
			items = append(items, fmt.Sprintf("%s (%s)", sk.Name, sk.Level))
		}
		b.text("", strings.Join(items, ", "))
	}

	if len(v.Projects) > 0 {
		b.text("Heading1", "Projects")
		for _, p := range v.Projects {
			b.headed(p.Name, p.URLLabel)
			if p.Description != "" {
				b.text("", p.Description)
			}
			if len(p.Tags) > 0 {
				b.para("", docxRun{text: "Technologies: ", bold: true}, docxRun{text: strings.Join(p.Tags, ", ")})
			}
		}
	}

	// A4 in twentieths of a point, 2cm margins.
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + wordNS + `><w:body>` + b.String() +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>` +
		`</w:body></w:document>`
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
