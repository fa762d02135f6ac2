package domain

import (
	"strings"
	"time"

	apperrors "resume-builder/internal/errors"

	"github.com/google/uuid"
)

// Section names a form tab; list sections hold repeatable rows.
type Section string

const (
	SectionPersonal   Section = "personal"
	SectionSummary    Section = "summary"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
	SectionProjects   Section = "projects"
)

var Sections = []Section{
	SectionPersonal,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
}

func ParseSection(s string) (Section, error) {
	for _, v := range Sections {
		if string(v) == s {
			return v, nil
		}
	}
	return "", apperrors.InvalidInput("unknown section "+s, nil)
}

var (
	ErrInvalidSkillLevel = apperrors.InvalidInput("invalid skill level", nil)
	ErrLastEntry         = apperrors.InvalidInput("the last remaining entry of a section cannot be removed", nil)
	ErrEntryIndex        = apperrors.InvalidInput("entry index out of range", nil)
	ErrNotListSection    = apperrors.InvalidInput("section has no repeatable entries", nil)

	// ErrDraftNotFound covers both unknown ids and drafts owned by someone
	// else; callers cannot tell the two apart.
	ErrDraftNotFound = apperrors.NotFound("draft not found", nil)
)

// Draft is a persisted, in-progress resume owned by exactly one user.
type Draft struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	TemplateID    string    `json:"templateId"`
	ActiveSection Section   `json:"activeSection"`
	Progress      int       `json:"progress"`
	Document      Document  `json:"document"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID may read or mutate the draft.
func (d *Draft) OwnedBy(userID uuid.UUID) bool {
	return d != nil && d.UserID == userID
}

// DraftName builds the listing name "First Last - Template" and trims the
// ends only, so a blank name leaves "- Template". Without a template the
// name stands alone.
func DraftName(doc Document, templateName string) string {
	if templateName == "" {
		if name := doc.Personal.FullName(); name != "" {
			return name
		}
		return "Untitled Resume"
	}
	return strings.TrimSpace(doc.Personal.FirstName + " " + doc.Personal.LastName + " - " + templateName)
}
