package domain

import (
	"strings"

	apperrors "resume-builder/internal/errors"
)

// Document is the canonical in-memory resume. JSON field names are the
// persisted contract and must not change.
type Document struct {
	Personal   Personal     `json:"personal"`
	Summary    Summary      `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []Skill      `json:"skills"`
	Projects   []Project    `json:"projects"`
}

type Personal struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Title       string `json:"title"`
	LinkedinURL string `json:"linkedinUrl"`
}

// FullName joins the trimmed first and last names.
func (p Personal) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

type Summary struct {
	Text string `json:"text"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description"`
}

type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	GPA          string `json:"gpa"`
}

type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Technologies string `json:"technologies"`
}

type SkillLevel string

const (
	Beginner     SkillLevel = "Beginner"
	Intermediate SkillLevel = "Intermediate"
	Advanced     SkillLevel = "Advanced"
	Expert       SkillLevel = "Expert"
)

// SkillLevels lists the closed enumeration in ascending order.
var SkillLevels = []SkillLevel{Beginner, Intermediate, Advanced, Expert}

// ParseSkillLevel matches s case-insensitively against the enumeration.
// A blank value is the default level.
func ParseSkillLevel(s string) (SkillLevel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Beginner, nil
	}
	for _, l := range SkillLevels {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", apperrors.InvalidInput("skill level must be one of Beginner, Intermediate, Advanced, Expert", ErrInvalidSkillLevel)
}

func (l SkillLevel) Valid() bool {
	for _, v := range SkillLevels {
		if l == v {
			return true
		}
	}
	return false
}

// Percent is the proportional fill used by skill bars.
func (l SkillLevel) Percent() int {
	for i, v := range SkillLevels {
		if l == v {
			return (i + 1) * 100 / len(SkillLevels)
		}
	}
	return 0
}

// NewDocument returns a document with one empty row per list section.
func NewDocument() Document {
	return Document{
		Experience: []Experience{{}},
		Education:  []Education{{}},
		Skills:     []Skill{{Level: Beginner}},
		Projects:   []Project{{}},
	}
}

// Normalize restores the one-row-per-section invariant and canonicalizes
// skill levels. It fails on a level outside the enumeration.
func (d *Document) Normalize() error {
	if len(d.Experience) == 0 {
		d.Experience = []Experience{{}}
	}
	if len(d.Education) == 0 {
		d.Education = []Education{{}}
	}
	if len(d.Skills) == 0 {
		d.Skills = []Skill{{Level: Beginner}}
	}
	if len(d.Projects) == 0 {
		d.Projects = []Project{{}}
	}
	for i := range d.Skills {
		lvl, err := ParseSkillLevel(string(d.Skills[i].Level))
		if err != nil {
			return err
		}
		d.Skills[i].Level = lvl
	}
	return nil
}

// AddEntry appends an empty row to a list section.
func (d *Document) AddEntry(s Section) error {
	switch s {
	case SectionExperience:
		d.Experience = append(d.Experience, Experience{})
	case SectionEducation:
		d.Education = append(d.Education, Education{})
	case SectionSkills:
		d.Skills = append(d.Skills, Skill{Level: Beginner})
	case SectionProjects:
		d.Projects = append(d.Projects, Project{})
	default:
		return ErrNotListSection
	}
	return nil
}

// RemoveEntry deletes row i of a list section. The last remaining row
// cannot be removed.
func (d *Document) RemoveEntry(s Section, i int) error {
	n, err := d.entryCount(s)
	if err != nil {
		return err
	}
	if i < 0 || i >= n {
		return ErrEntryIndex
	}
	if n == 1 {
		return ErrLastEntry
	}
	switch s {
	case SectionExperience:
		d.Experience = append(d.Experience[:i], d.Experience[i+1:]...)
	case SectionEducation:
		d.Education = append(d.Education[:i], d.Education[i+1:]...)
	case SectionSkills:
		d.Skills = append(d.Skills[:i], d.Skills[i+1:]...)
	case SectionProjects:
		d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
	}
	return nil
}

func (d *Document) entryCount(s Section) (int, error) {
	switch s {
	case SectionExperience:
		return len(d.Experience), nil
	case SectionEducation:
		return len(d.Education), nil
	case SectionSkills:
		return len(d.Skills), nil
	case SectionProjects:
		return len(d.Projects), nil
	}
	return 0, ErrNotListSection
}
