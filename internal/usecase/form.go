package usecase

import (
	"resume-builder/internal/domain"
)

// FormState is what the form receives after every edit: the document and
// its recomputed completion percentage.
type FormState struct {
	Document domain.Document `json:"document"`
	Progress int             `json:"progress"`
}

// Form holds the editing operations. They take a document and return a new
// state; nothing is stored.
type Form struct{}

func NewForm() *Form { return &Form{} }

func (f *Form) State(doc domain.Document) (FormState, error) {
	doc = cloneDocument(doc)
	if err := doc.Normalize(); err != nil {
		return FormState{}, err
	}
	return FormState{Document: doc, Progress: domain.Progress(doc)}, nil
}

func (f *Form) AddEntry(doc domain.Document, section domain.Section) (FormState, error) {
	doc = cloneDocument(doc)
	if err := doc.Normalize(); err != nil {
		return FormState{}, err
	}
	if err := doc.AddEntry(section); err != nil {
		return FormState{}, err
	}
	return FormState{Document: doc, Progress: domain.Progress(doc)}, nil
}

func (f *Form) RemoveEntry(doc domain.Document, section domain.Section, index int) (FormState, error) {
	doc = cloneDocument(doc)
	if err := doc.Normalize(); err != nil {
		return FormState{}, err
	}
	if err := doc.RemoveEntry(section, index); err != nil {
		return FormState{}, err
	}
	return FormState{Document: doc, Progress: domain.Progress(doc)}, nil
}
