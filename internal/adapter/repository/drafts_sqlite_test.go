package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/migration"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func createTestRepo(t *testing.T) *SQLiteDraftsRepo {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migration.RunSQLite(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return NewSQLiteDraftsRepo(db)
}

func newDraft(userID uuid.UUID, updated time.Time) *domain.Draft {
	doc := domain.NewDocument()
	doc.Personal.FirstName = "Jane"
	doc.Experience[0] = domain.Experience{Company: "Acme", IsCurrent: true, Description: "line one\nline two"}
	doc.Skills = []domain.Skill{{Name: "Go", Level: domain.Expert}, {Name: "SQL", Level: domain.Intermediate}}
	return &domain.Draft{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "Jane - Modern",
		TemplateID:    "modern",
		ActiveSection: domain.SectionSkills,
		Progress:      domain.Progress(doc),
		Document:      doc,
		CreatedAt:     updated,
		UpdatedAt:     updated,
	}
}

func TestSQLiteInsertAndFind(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	user := uuid.New()
	d := newDraft(user, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	if err := repo.Insert(ctx, d); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.FindByID(ctx, user, d.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != d.ID || got.UserID != user || got.Name != d.Name || got.ActiveSection != domain.SectionSkills {
		t.Errorf("draft metadata mismatch: %+v", got)
	}
	if got.Document.Experience[0].Description != "line one\nline two" || !got.Document.Experience[0].IsCurrent {
		t.Errorf("experience not preserved: %+v", got.Document.Experience)
	}
	if len(got.Document.Skills) != 2 || got.Document.Skills[1].Level != domain.Intermediate {
		t.Errorf("skills not preserved: %+v", got.Document.Skills)
	}
	if !got.UpdatedAt.Equal(d.UpdatedAt) {
		t.Errorf("updatedAt = %v, expected %v", got.UpdatedAt, d.UpdatedAt)
	}
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

func TestSQLiteDocumentRoundTrip(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	user := uuid.New()
	d := newDraft(user, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	d.Document = fullDocument()
	d.Progress = domain.Progress(d.Document)

	if err := repo.Insert(ctx, d); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := repo.FindByID(ctx, user, d.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(got.Document, d.Document) {
		t.Errorf("document changed on insert:\n got %+v\nwant %+v", got.Document, d.Document)
	}

	d.Document.Experience[1].IsCurrent = true
	d.Document.Skills = d.Document.Skills[:2]
	d.UpdatedAt = d.UpdatedAt.Add(time.Hour)
	if err := repo.Update(ctx, d); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = repo.FindByID(ctx, user, d.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if !reflect.DeepEqual(got.Document, d.Document) {
		t.Errorf("document changed on update:\n got %+v\nwant %+v", got.Document, d.Document)
	}
	if got.Progress != d.Progress {
		t.Errorf("progress = %d, expected %d", got.Progress, d.Progress)
	}
}

func TestSQLiteOwnershipIsolation(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	d := newDraft(owner, time.Now())
	if err := repo.Insert(ctx, d); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := repo.FindByID(ctx, other, d.ID); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("foreign find: expected ErrDraftNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, owner, uuid.New()); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("unknown find: expected ErrDraftNotFound, got %v", err)
	}

	foreign := *d
	foreign.UserID = other
	foreign.Name = "hijacked"
	if err := repo.Update(ctx, &foreign); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("foreign update: expected ErrDraftNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, other, d.ID); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("foreign delete: expected ErrDraftNotFound, got %v", err)
	}

	got, err := repo.FindByID(ctx, owner, d.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != d.Name {
		t.Errorf("foreign update leaked: name = %q", got.Name)
	}
}

func TestSQLiteListOrderAndUpdate(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	user := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newDraft(user, base)
	newer := newDraft(user, base.Add(time.Hour))
	for _, d := range []*domain.Draft{older, newer, newDraft(uuid.New(), base)} {
		if err := repo.Insert(ctx, d); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	list, err := repo.ListByUser(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("expected newest first, got %v", ids(list))
	}

	older.UpdatedAt = base.Add(2 * time.Hour)
	older.TemplateID = "minimal"
	if err := repo.Update(ctx, older); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err = repo.ListByUser(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].ID != older.ID || list[0].TemplateID != "minimal" {
		t.Errorf("updated draft should lead the list, got %v", ids(list))
	}
}

func TestSQLiteDelete(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	user := uuid.New()
	d := newDraft(user, time.Now())
	if err := repo.Insert(ctx, d); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Delete(ctx, user, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, user, d.ID); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("second delete: expected ErrDraftNotFound, got %v", err)
	}
	list, err := repo.ListByUser(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d", len(list))
	}
}

func ids(ds []domain.Draft) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}
