package repository

import (
	"context"
	"database/sql"
	"errors"

	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"

	"github.com/google/uuid"
)

// SQLiteDraftsRepo is the single-file store used for local runs and tests.
// Section JSON is kept in TEXT columns.
type SQLiteDraftsRepo struct {
	db *sql.DB
}

func NewSQLiteDraftsRepo(db *sql.DB) *SQLiteDraftsRepo {
	return &SQLiteDraftsRepo{db: db}
}

func (r *SQLiteDraftsRepo) Insert(ctx context.Context, d *domain.Draft) error {
	cols, err := encodeSections(d.Document)
	if err != nil {
		return apperrors.Internal("encoding draft", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO resume_drafts (`+draftColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		d.ID.String(), d.UserID.String(), d.Name, d.TemplateID, string(d.ActiveSection), d.Progress,
		string(cols.Personal), string(cols.Summary), string(cols.Experience), string(cols.Education),
		string(cols.Skills), string(cols.Projects), d.CreatedAt.UTC(), d.UpdatedAt.UTC())
	if err != nil {
		return apperrors.Unavailable("inserting draft", err)
	}
	return nil
}

func (r *SQLiteDraftsRepo) Update(ctx context.Context, d *domain.Draft) error {
	cols, err := encodeSections(d.Document)
	if err != nil {
		return apperrors.Internal("encoding draft", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE resume_drafts SET name = ?, template_id = ?, active_section = ?, progress = ?,
		personal = ?, summary = ?, experience = ?, education = ?, skills = ?, projects = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		d.Name, d.TemplateID, string(d.ActiveSection), d.Progress,
		string(cols.Personal), string(cols.Summary), string(cols.Experience), string(cols.Education),
		string(cols.Skills), string(cols.Projects), d.UpdatedAt.UTC(),
		d.ID.String(), d.UserID.String())
	if err != nil {
		return apperrors.Unavailable("updating draft", err)
	}
	return affectedOne(res)
}

func (r *SQLiteDraftsRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM resume_drafts WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDraftNotFound
	}
	return d, err
}

func (r *SQLiteDraftsRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+draftColumns+` FROM resume_drafts
		WHERE user_id = ? ORDER BY updated_at DESC, id`, userID.String())
	if err != nil {
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

func (r *SQLiteDraftsRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resume_drafts WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return apperrors.Unavailable("deleting draft", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Unavailable("reading affected rows", err)
	}
	if n == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}
