package usecase

import (
	"context"
	"time"

	"resume-builder/internal/adapter/events"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/pkg/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftRepo is the persistence gateway for drafts. Lookups are scoped to the
// owner; unknown and foreign ids both yield domain.ErrDraftNotFound.
type DraftRepo interface {
	Insert(ctx context.Context, d *domain.Draft) error
	Update(ctx context.Context, d *domain.Draft) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Draft, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Drafts struct {
	repo      DraftRepo
	exporter  *Exporter
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

func NewDrafts(repo DraftRepo, exporter *Exporter, p events.Publisher, logger *zap.Logger) *Drafts {
	return &Drafts{
		repo:      repo,
		exporter:  exporter,
		publisher: p,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.New,
	}
}

// List returns the user's drafts, most recently updated first.
func (s *Drafts) List(ctx context.Context, userID uuid.UUID) ([]domain.Draft, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Drafts) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	return s.repo.FindByID(ctx, userID, id)
}

// Save creates a draft when req.ID is empty and otherwise updates the
// user's draft with that id. Name and progress are always recomputed.
func (s *Drafts) Save(ctx context.Context, userID uuid.UUID, req model.SaveDraftRequest) (*domain.Draft, error) {
	ctx, span := telemetry.Tracer("resume-builder/usecase").Start(ctx, "Drafts.Save")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	tpl, doc, err := prepare(req.Document, req.TemplateID)
	if err != nil {
		return nil, err
	}
	section := domain.SectionPersonal
	if req.ActiveSection != "" {
		if section, err = domain.ParseSection(req.ActiveSection); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var d *domain.Draft
	if req.ID == "" {
		d = &domain.Draft{ID: s.newID(), UserID: userID, CreatedAt: now}
	} else {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, domain.ErrDraftNotFound
		}
		if d, err = s.repo.FindByID(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	d.TemplateID = tpl.ID
	d.ActiveSection = section
	d.Document = doc
	d.Progress = domain.Progress(doc)
	d.Name = domain.DraftName(doc, tpl.Name)
	d.UpdatedAt = now

	if req.ID == "" {
		err = s.repo.Insert(ctx, d)
	} else {
		err = s.repo.Update(ctx, d)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeDraftSaved, UserID: userID.String(), DraftID: d.ID.String(), TemplateID: d.TemplateID, OccurredAt: now})
	s.logger.Info("draft saved",
		zap.String("draft_id", d.ID.String()),
		zap.Bool("created", req.ID == ""),
		zap.Int("progress", d.Progress))
	return d, nil
}

func (s *Drafts) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Type: events.TypeDraftDeleted, UserID: userID.String(), DraftID: id.String(), OccurredAt: s.now()})
	return nil
}

// Export loads the user's draft and renders it with the draft's template.
func (s *Drafts) Export(ctx context.Context, userID, id uuid.UUID, enc render.Encoding) (*Artifact, error) {
	d, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(ctx, ExportRequest{
		UserID:     userID.String(),
		TemplateID: d.TemplateID,
		Encoding:   enc,
		Document:   d.Document,
	})
}

func (s *Drafts) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("draft event not published", zap.String("type", e.Type), zap.Error(err))
	}
}
