package usecase

import (
	"errors"
	"testing"

	"resume-builder/internal/domain"
)

func TestFormAddAndRemove(t *testing.T) {
	f := NewForm()
	doc := domain.NewDocument()

	st, err := f.AddEntry(doc, domain.SectionProjects)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(st.Document.Projects) != 2 {
		t.Fatalf("projects = %d", len(st.Document.Projects))
	}
	if len(doc.Projects) != 1 {
		t.Error("input document was modified")
	}
	if st.Progress >= domain.Progress(doc) {
		t.Errorf("an empty row should lower progress: %d", st.Progress)
	}

	st, err = f.RemoveEntry(st.Document, domain.SectionProjects, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(st.Document.Projects) != 1 {
		t.Errorf("projects = %d", len(st.Document.Projects))
	}

	if _, err := f.RemoveEntry(st.Document, domain.SectionProjects, 0); !errors.Is(err, domain.ErrLastEntry) {
		t.Errorf("expected ErrLastEntry, got %v", err)
	}
}

func TestFormStateNormalizes(t *testing.T) {
	st, err := NewForm().State(domain.Document{})
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(st.Document.Experience) != 1 || st.Document.Skills[0].Level != domain.Beginner {
		t.Errorf("document not normalized: %+v", st.Document)
	}
	if st.Progress != 4 {
		t.Errorf("progress = %d, expected 4", st.Progress)
	}
}
