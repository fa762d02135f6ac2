package repository

import (
	"context"
	"database/sql"
	"errors"

	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"
	"resume-builder/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const draftColumns = `id, user_id, name, template_id, active_section, progress,
	personal, summary, experience, education, skills, projects, created_at, updated_at`

// DraftsRepo stores drafts in Postgres, one JSONB column per section.
type DraftsRepo struct {
	pool *pgxpool.Pool
}

func NewDraftsRepo(pool *pgxpool.Pool) *DraftsRepo {
	return &DraftsRepo{pool: pool}
}

func (r *DraftsRepo) Insert(ctx context.Context, d *domain.Draft) error {
	ctx, span := telemetry.Tracer("resume-builder/repository").Start(ctx, "DraftsRepo.Insert")
	defer span.End()

	cols, err := encodeSections(d.Document)
	if err != nil {
		return apperrors.Internal("encoding draft", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO resume_drafts (`+draftColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		d.ID, d.UserID, d.Name, d.TemplateID, string(d.ActiveSection), d.Progress,
		cols.Personal, cols.Summary, cols.Experience, cols.Education, cols.Skills, cols.Projects,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		telemetry.RecordError(span, err)
		return apperrors.Unavailable("inserting draft", err)
	}
	return nil
}

// Update overwrites a draft the user owns. A missing or foreign row is
// ErrDraftNotFound.
func (r *DraftsRepo) Update(ctx context.Context, d *domain.Draft) error {
	ctx, span := telemetry.Tracer("resume-builder/repository").Start(ctx, "DraftsRepo.Update")
	defer span.End()

	cols, err := encodeSections(d.Document)
	if err != nil {
		return apperrors.Internal("encoding draft", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE resume_drafts SET name = $3, template_id = $4, active_section = $5, progress = $6,
		personal = $7, summary = $8, experience = $9, education = $10, skills = $11, projects = $12, updated_at = $13
		WHERE id = $1 AND user_id = $2`,
		d.ID, d.UserID, d.Name, d.TemplateID, string(d.ActiveSection), d.Progress,
		cols.Personal, cols.Summary, cols.Experience, cols.Education, cols.Skills, cols.Projects,
		d.UpdatedAt)
	if err != nil {
		telemetry.RecordError(span, err)
		return apperrors.Unavailable("updating draft", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (r *DraftsRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	ctx, span := telemetry.Tracer("resume-builder/repository").Start(ctx, "DraftsRepo.FindByID")
	defer span.End()

	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM resume_drafts WHERE id = $1 AND user_id = $2`, id, userID)
	d, err := scanDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return d, nil
}

func (r *DraftsRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Draft, error) {
	ctx, span := telemetry.Tracer("resume-builder/repository").Start(ctx, "DraftsRepo.ListByUser")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT `+draftColumns+` FROM resume_drafts
		WHERE user_id = $1 ORDER BY updated_at DESC, id`, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, apperrors.Unavailable("listing drafts", err)
	}
	defer rows.Close()

	drafts := []domain.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("listing drafts", err)
	}
	return drafts, nil
}

func (r *DraftsRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := telemetry.Tracer("resume-builder/repository").Start(ctx, "DraftsRepo.Delete")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM resume_drafts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return apperrors.Unavailable("deleting draft", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows and *sql.Row(s).
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row rowScanner) (*domain.Draft, error) {
	var (
		d       domain.Draft
		section string
		cols    sectionColumns
	)
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.TemplateID, &section, &d.Progress,
		&cols.Personal, &cols.Summary, &cols.Experience, &cols.Education, &cols.Skills, &cols.Projects,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Unavailable("reading draft", err)
	}
	d.ActiveSection = domain.Section(section)
	if d.Document, err = cols.decode(); err != nil {
		return nil, apperrors.Internal("decoding stored draft", err)
	}
	return &d, nil
}
