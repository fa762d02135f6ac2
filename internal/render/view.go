// Package render turns a resume document and a template into export
// artifacts. Every encoding consumes the same View, so the rules deciding
// which sections appear live in one place.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"

	"golang.org/x/net/publicsuffix"
)

const (
	placeholderName     = "Your Name"
	placeholderPosition = "Position"
	placeholderCompany  = "Company"
	present             = "Present"
	contactSeparator    = " | "
)

// View is the render-ready projection of a document. Empty sections are nil.
type View struct {
	Name       string
	Title      string
	Contact    []ContactItem
	Summary    string
	Experience []ExperienceView
	Education  []EducationView
	Skills     []SkillView
	Projects   []ProjectView
}

type ContactItem struct {
	Text string
	Href string
}

type ExperienceView struct {
	Position string
	Company  string
	Dates    string
	Bullets  []string
}

type EducationView struct {
	Degree      string // "degree in field"
	Institution string
	Dates       string
	GPA         string
}

type SkillView struct {
	Name    string
	Level   string
	Percent int
}

type ProjectView struct {
	Name        string
	Description string
	URL         string
	URLLabel    string
	Tags        []string
}

// ContactLine joins the present contact fields with the separator.
func (v View) ContactLine() string {
	parts := make([]string, 0, len(v.Contact))
	for _, c := range v.Contact {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, contactSeparator)
}

// Empty reports whether no section below the header has content.
func (v View) Empty() bool {
	return v.Summary == "" && len(v.Experience) == 0 && len(v.Education) == 0 &&
		len(v.Skills) == 0 && len(v.Projects) == 0
}

// Project builds the View for a normalized document. Skill levels are
// taken as they are; the render entry points reject documents that fail
// checkLevels before projecting them.
func Project(doc domain.Document) View {
	p := doc.Personal
	v := View{
		Name:    fullName(p.FirstName, p.LastName),
		Title:   strings.TrimSpace(p.Title),
		Summary: strings.TrimSpace(doc.Summary.Text),
	}
	if v.Name == "" {
		v.Name = placeholderName
	}

	if s := strings.TrimSpace(p.Email); s != "" {
		v.Contact = append(v.Contact, ContactItem{Text: s, Href: "mailto:" + s})
	}
	if s := strings.TrimSpace(p.Phone); s != "" {
		v.Contact = append(v.Contact, ContactItem{Text: s})
	}
	if s := strings.TrimSpace(p.Location); s != "" {
		v.Contact = append(v.Contact, ContactItem{Text: s})
	}
	if s := strings.TrimSpace(p.LinkedinURL); s != "" {
		href, label := linkLabel(s, true)
		v.Contact = append(v.Contact, ContactItem{Text: label, Href: href})
	}

	for _, e := range doc.Experience {
		company, position := strings.TrimSpace(e.Company), strings.TrimSpace(e.Position)
		if company == "" && position == "" {
			continue
		}
		v.Experience = append(v.Experience, ExperienceView{
			Position: orDefault(position, placeholderPosition),
			Company:  orDefault(company, placeholderCompany),
			Dates:    dateRange(e.StartDate, e.EndDate, e.IsCurrent),
			Bullets:  splitLines(e.Description),
		})
	}

	for _, e := range doc.Education {
		institution, degree := strings.TrimSpace(e.Institution), strings.TrimSpace(e.Degree)
		if institution == "" && degree == "" {
			continue
		}
		if field := strings.TrimSpace(e.FieldOfStudy); field != "" {
			degree = strings.TrimSpace(degree + " in " + field)
		}
		ev := EducationView{
			Degree:      degree,
			Institution: institution,
			Dates:       dateRange(e.StartDate, e.EndDate, false),
		}
		if gpa := strings.TrimSpace(e.GPA); gpa != "" {
			ev.GPA = "GPA: " + gpa
		}
		v.Education = append(v.Education, ev)
	}

	for _, s := range doc.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		level := s.Level
		v.Skills = append(v.Skills, SkillView{Name: name, Level: string(level), Percent: level.Percent()})
	}

	for _, pr := range doc.Projects {
		name := strings.TrimSpace(pr.Name)
		if name == "" {
			continue
		}
		pv := ProjectView{
			Name:        name,
			Description: strings.TrimSpace(pr.Description),
			Tags:        splitTags(pr.Technologies),
		}
		if u := strings.TrimSpace(pr.URL); u != "" {
			pv.URL, pv.URLLabel = linkLabel(u, false)
		}
		v.Projects = append(v.Projects, pv)
	}

	return v
}

// checkLevels rejects a named skill whose level is outside the enumeration.
func checkLevels(doc domain.Document) error {
	for _, s := range doc.Skills {
		if strings.TrimSpace(s.Name) != "" && !s.Level.Valid() {
			return apperrors.InvalidInput(fmt.Sprintf("skill %q has level %q", s.Name, s.Level), domain.ErrInvalidSkillLevel)
		}
	}
	return nil
}

func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// dateRange renders "start - end". A current role, or a missing end date
// after a known start, ends at Present.
func dateRange(start, end string, current bool) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if current {
		end = present
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		end = present
	}
	return start + " - " + end
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// linkLabel returns an absolute href and a short label for a user-entered
// URL. The label is the eTLD+1, followed by the path when keepPath is set.
func linkLabel(raw string, keepPath bool) (href, label string) {
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return "", raw
	}
	host := parsed.Hostname()
	label = strings.TrimPrefix(host, "www.")
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		label = etld
	}
	if path := strings.Trim(parsed.EscapedPath(), "/"); keepPath && path != "" {
		label += "/" + path
	}
	return parsed.String(), label
}
