package usecase

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"resume-builder/internal/adapter/analytics"
	"resume-builder/internal/adapter/cache"
	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/model"
	"resume-builder/internal/render"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func newTestDrafts(t *testing.T) (*Drafts, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	exp := NewExporter(&fakeCapturer{}, cache.NewMemory(), pub, analytics.Noop{}, ExporterConfig{Attempts: 1}, zap.NewNop())
	s := NewDrafts(newMemoryRepo(), exp, pub, zap.NewNop())

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s, pub
}

func fullDocument() domain.Document {
	return domain.Document{
		Personal: domain.Personal{
			FirstName:   "  Jane ",
			LastName:    "Doe  ",
			Email:       " jane@example.com",
			Phone:       "+1 555 0100 ",
			Location:    "  Lisbon, PT",
			Title:       "Staff Engineer\t",
			LinkedinURL: " https://linkedin.com/in/janedoe ",
		},
		Summary: domain.Summary{Text: "  Builds things.\n\nShips them.  "},
		Experience: []domain.Experience{
			{Company: " Acme ", Position: "Lead", StartDate: "2021-02", IsCurrent: true, Description: "line one\n  line two\n"},
			{Company: "Initech", Position: " Engineer", StartDate: "2018-01", EndDate: "2021-01 ", Description: "Ünïcode & <markup>"},
		},
		Education: []domain.Education{
			{Institution: " MIT", Degree: "BSc ", FieldOfStudy: "  CS", StartDate: "2014", EndDate: "2018", GPA: " 3.9 "},
			{Institution: "Online", Degree: "Certificate"},
		},
		Skills: []domain.Skill{
			{Name: " Go ", Level: domain.Expert},
			{Name: "SQL", Level: domain.Advanced},
			{Name: "  Rust", Level: domain.Intermediate},
			{Name: "Haskell ", Level: domain.Beginner},
		},
		Projects: []domain.Project{
			{Name: " resume-builder", Description: "  PDF export \n", URL: "https://example.com/rb ", Technologies: "Go, Chrome "},
			{Name: "dotfiles", Technologies: " shell"},
		},
	}
}

func sqliteRepo(t *testing.T) DraftRepo {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "drafts.db")+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migration.RunSQLite(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewSQLiteDraftsRepo(db)
}

func TestSaveThenGetKeepsDocument(t *testing.T) {
	tests := []struct {
		name string
		repo func(t *testing.T) DraftRepo
	}{
		{name: "memory", repo: func(*testing.T) DraftRepo { return newMemoryRepo() }},
		{name: "sqlite", repo: sqliteRepo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestDrafts(t)
			s.repo = tt.repo(t)
			ctx := context.Background()
			user := uuid.New()

			saved, err := s.Save(ctx, user, model.SaveDraftRequest{
				TemplateID:    "professional",
				ActiveSection: string(domain.SectionProjects),
				Document:      fullDocument(),
			})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if !reflect.DeepEqual(saved.Document, fullDocument()) {
				t.Errorf("save altered the document:\n got %+v\nwant %+v", saved.Document, fullDocument())
			}

			got, err := s.Get(ctx, user, saved.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !reflect.DeepEqual(got.Document, fullDocument()) {
				t.Errorf("stored document differs:\n got %+v\nwant %+v", got.Document, fullDocument())
			}
			if got.Name != saved.Name || got.TemplateID != "professional" || got.ActiveSection != domain.SectionProjects {
				t.Errorf("metadata mismatch: %+v", got)
			}
			if got.Progress != domain.Progress(fullDocument()) {
				t.Errorf("progress = %d", got.Progress)
			}
		})
	}
}

func TestSaveCreatesDraft(t *testing.T) {
	s, pub := newTestDrafts(t)
	user := uuid.New()

	d, err := s.Save(context.Background(), user, model.SaveDraftRequest{
		TemplateID: "creative",
		Document:   exportDocument(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if d.ID == uuid.Nil || d.UserID != user {
		t.Errorf("ids not assigned: %+v", d)
	}
	if d.Name != "Jane Doe - Creative" {
		t.Errorf("name = %q", d.Name)
	}
	if d.ActiveSection != domain.SectionPersonal {
		t.Errorf("active section = %q", d.ActiveSection)
	}
	if d.Progress != domain.Progress(d.Document) || d.Progress == 0 {
		t.Errorf("progress = %d", d.Progress)
	}
	if d.Document.Skills[0].Level != domain.Expert {
		t.Errorf("skill level not normalized: %q", d.Document.Skills[0].Level)
	}
	if got := pub.types(); len(got) != 1 || got[0] != "draft.saved" {
		t.Errorf("events = %v", got)
	}
}

func TestSaveUpdatesOwnedDraft(t *testing.T) {
	s, _ := newTestDrafts(t)
	ctx := context.Background()
	user := uuid.New()

	created, err := s.Save(ctx, user, model.SaveDraftRequest{Document: exportDocument()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc := created.Document
	doc.Personal.LastName = "Smith"
	updated, err := s.Save(ctx, user, model.SaveDraftRequest{
		ID:            created.ID.String(),
		TemplateID:    "minimal",
		ActiveSection: "projects",
		Document:      doc,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("update must keep identity and creation time")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt did not advance")
	}
	if updated.Name != "Jane Smith - Minimal" || updated.ActiveSection != domain.SectionProjects {
		t.Errorf("updated draft = %+v", updated)
	}

	list, err := s.List(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("update created a second draft: %d", len(list))
	}
}

func TestSaveRejectsForeignAndUnknownIDs(t *testing.T) {
	s, _ := newTestDrafts(t)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	d, err := s.Save(ctx, owner, model.SaveDraftRequest{Document: exportDocument()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for name, id := range map[string]string{"foreign": d.ID.String(), "unknown": uuid.NewString()} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Save(ctx, intruder, model.SaveDraftRequest{ID: id, Document: exportDocument()})
			if !errors.Is(err, domain.ErrDraftNotFound) {
				t.Errorf("expected ErrDraftNotFound, got %v", err)
			}
		})
	}

	got, err := s.Get(ctx, owner, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != owner {
		t.Error("draft ownership changed")
	}
}

func TestSaveValidation(t *testing.T) {
	s, _ := newTestDrafts(t)
	tests := []struct {
		name string
		req  model.SaveDraftRequest
	}{
		{"bad id", model.SaveDraftRequest{ID: "nope"}},
		{"bad template", model.SaveDraftRequest{TemplateID: "fancy"}},
		{"bad section", model.SaveDraftRequest{ActiveSection: "hobbies"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(context.Background(), uuid.New(), tt.req)
			if apperrors.TypeOf(err) != apperrors.ErrTypeInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestListOrderAndDelete(t *testing.T) {
	s, pub := newTestDrafts(t)
	ctx := context.Background()
	user := uuid.New()

	first, _ := s.Save(ctx, user, model.SaveDraftRequest{Document: exportDocument()})
	second, _ := s.Save(ctx, user, model.SaveDraftRequest{Document: exportDocument()})
	if _, err := s.Save(ctx, uuid.New(), model.SaveDraftRequest{Document: exportDocument()}); err != nil {
		t.Fatalf("save other user: %v", err)
	}

	list, err := s.List(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first")
	}

	if err := s.Delete(ctx, uuid.New(), first.ID); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("foreign delete: expected ErrDraftNotFound, got %v", err)
	}
	if err := s.Delete(ctx, user, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, user, first.ID); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("deleted draft still readable: %v", err)
	}
	types := pub.types()
	if types[len(types)-1] != "draft.deleted" {
		t.Errorf("last event = %q", types[len(types)-1])
	}
}

func TestExportSavedDraft(t *testing.T) {
	s, _ := newTestDrafts(t)
	ctx := context.Background()
	user := uuid.New()
	d, err := s.Save(ctx, user, model.SaveDraftRequest{TemplateID: "professional", Document: exportDocument()})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	a, err := s.Export(ctx, user, d.ID, render.EncodingDOCX)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if a.Filename != "Jane_Doe_professional.docx" {
		t.Errorf("filename = %q", a.Filename)
	}

	if _, err := s.Export(ctx, uuid.New(), d.ID, render.EncodingDOCX); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("foreign export: expected ErrDraftNotFound, got %v", err)
	}
}
