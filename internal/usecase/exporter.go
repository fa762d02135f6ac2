package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/adapter/analytics"
	"resume-builder/internal/adapter/cache"
	"resume-builder/internal/adapter/events"
	"resume-builder/internal/domain"
	apperrors "resume-builder/internal/errors"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/theme"
	"resume-builder/pkg/telemetry"

	"go.uber.org/zap"
)

// Capturer drives the browser used for PDF output.
type Capturer interface {
	// CapturePreview returns a PNG of the preview surface at 2x density.
	CapturePreview(ctx context.Context, html []byte) ([]byte, error)
	// PrintPDF prints the page to an A4 PDF with selectable text.
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

type ExportRequest struct {
	UserID     string // optional, only used for events and analytics
	TemplateID string
	Encoding   render.Encoding
	Document   domain.Document
}

type Artifact struct {
	Filename    string
	ContentType string
	Bytes       []byte
}

type ExporterConfig struct {
	PDFMode  string // raster | vector
	Attempts int
	Backoff  time.Duration
	CacheTTL time.Duration
}

type Exporter struct {
	capturer  Capturer
	cache     cache.Cache
	publisher events.Publisher
	recorder  analytics.Recorder
	cfg       ExporterConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewExporter(c Capturer, ch cache.Cache, p events.Publisher, rec analytics.Recorder, cfg ExporterConfig, logger *zap.Logger) *Exporter {
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	if cfg.PDFMode == "" {
		cfg.PDFMode = "raster"
	}
	return &Exporter{
		capturer:  c,
		cache:     ch,
		publisher: p,
		recorder:  rec,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Preview renders the live preview page for a document.
func (e *Exporter) Preview(ctx context.Context, doc domain.Document, templateID string) ([]byte, error) {
	_, span := telemetry.Tracer("resume-builder/usecase").Start(ctx, "Exporter.Preview")
	defer span.End()

	tpl, doc, err := prepare(doc, templateID)
	if err != nil {
		return nil, err
	}
	out, err := render.RenderPreview(doc, tpl)
	if err != nil {
		return nil, apperrors.Internal("rendering preview", err)
	}
	return out, nil
}

// Export renders a document into the requested encoding. It never touches
// stored drafts.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*Artifact, error) {
	ctx, span := telemetry.Tracer("resume-builder/usecase").Start(ctx, "Exporter.Export")
	defer span.End()
	start := e.now()

	if _, err := render.ParseEncoding(string(req.Encoding)); err != nil {
		return nil, err
	}
	tpl, doc, err := prepare(req.Document, req.TemplateID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		telemetry.String("resume.template", tpl.ID),
		telemetry.String("resume.encoding", string(req.Encoding)),
	)

	artifact := &Artifact{
		Filename:    render.Filename(doc, tpl.ID, req.Encoding),
		ContentType: req.Encoding.ContentType(),
	}

	key, err := e.cacheKey(doc, tpl.ID, req.Encoding)
	if err != nil {
		return nil, apperrors.Internal("hashing export request", err)
	}
	if b, err := e.cache.Get(ctx, key); err == nil {
		artifact.Bytes = b
		e.finish(ctx, req, tpl.ID, artifact, start, true)
		return artifact, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		e.logger.Warn("artifact cache read failed", zap.Error(err))
	}

	switch req.Encoding {
	case render.EncodingHTML:
		artifact.Bytes, err = render.RenderHTML(doc, tpl)
	case render.EncodingDOCX:
		artifact.Bytes, err = render.RenderDOCX(doc, tpl)
	case render.EncodingPDF:
		artifact.Bytes, err = e.renderPDF(ctx, doc, tpl)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if apperrors.TypeOf(err) == apperrors.ErrTypeInternal {
			err = apperrors.ExportFailed("export failed", err)
		}
		return nil, err
	}

	if err := e.cache.Set(ctx, key, artifact.Bytes, e.cfg.CacheTTL); err != nil {
		e.logger.Warn("artifact cache write failed", zap.Error(err))
	}
	e.finish(ctx, req, tpl.ID, artifact, start, false)
	return artifact, nil
}

// renderPDF retries the browser step with exponential backoff and accepts
// only output carrying the PDF signature.
func (e *Exporter) renderPDF(ctx context.Context, doc domain.Document, tpl theme.Template) ([]byte, error) {
	var (
		pdf []byte
		err error
	)
	for i := 0; i < e.cfg.Attempts; i++ {
		pdf, err = e.renderPDFOnce(ctx, doc, tpl)
		if err == nil {
			if bytes.HasPrefix(pdf, []byte("%PDF")) {
				return pdf, nil
			}
			err = apperrors.ExportFailed(fmt.Sprintf("invalid PDF output (len=%d)", len(pdf)), nil)
		}
		e.logger.Warn("pdf render attempt failed",
			zap.Int("attempt", i+1),
			zap.String("mode", e.cfg.PDFMode),
			zap.Error(err))
		if !retryable(err) {
			return nil, err
		}

		if i < e.cfg.Attempts-1 {
			backoff := e.cfg.Backoff * time.Duration(1<<i)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	e.logger.Error("pdf rendering failed", zap.Int("attempts", e.cfg.Attempts), zap.Error(err))
	return nil, err
}

// retryable reports whether another render attempt could succeed. A page
// without a preview surface or a rejected document fails identically every
// time.
func retryable(err error) bool {
	if errors.Is(err, render.ErrNoPreviewSurface) {
		return false
	}
	return !apperrors.Is(err, apperrors.ErrTypeInvalidInput)
}

func (e *Exporter) renderPDFOnce(ctx context.Context, doc domain.Document, tpl theme.Template) ([]byte, error) {
	if e.cfg.PDFMode == "vector" {
		html, err := render.RenderHTML(doc, tpl)
		if err != nil {
			return nil, err
		}
		return e.capturer.PrintPDF(ctx, html)
	}

	html, err := render.RenderPreview(doc, tpl)
	if err != nil {
		return nil, err
	}
	png, err := e.capturer.CapturePreview(ctx, html)
	if err != nil {
		return nil, err
	}
	return render.RasterPDF(png)
}

// finish publishes the export event and records the analytics row. Neither
// failure fails the export.
func (e *Exporter) finish(ctx context.Context, req ExportRequest, templateID string, a *Artifact, start time.Time, cacheHit bool) {
	now := e.now()
	if err := e.publisher.Publish(ctx, events.Event{
		Type:       events.TypeExported,
		UserID:     req.UserID,
		TemplateID: templateID,
		Encoding:   string(req.Encoding),
		Bytes:      len(a.Bytes),
		OccurredAt: now,
	}); err != nil {
		e.logger.Warn("export event not published", zap.Error(err))
	}
	if err := e.recorder.RecordExport(ctx, analytics.ExportRecord{
		UserID:     req.UserID,
		TemplateID: templateID,
		Encoding:   string(req.Encoding),
		Bytes:      len(a.Bytes),
		Duration:   now.Sub(start),
		CacheHit:   cacheHit,
		At:         now,
	}); err != nil {
		e.logger.Warn("export not recorded", zap.Error(err))
	}
	e.logger.Info("export completed",
		zap.String("template", templateID),
		zap.String("encoding", string(req.Encoding)),
		zap.Int("bytes", len(a.Bytes)),
		zap.Bool("cache_hit", cacheHit),
		zap.Duration("elapsed", now.Sub(start)))
}

func (e *Exporter) cacheKey(doc domain.Document, templateID string, enc render.Encoding) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|", templateID, enc, e.cfg.PDFMode)
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// prepare resolves the template and returns a normalized, schema-checked
// copy of doc.
func prepare(doc domain.Document, templateID string) (theme.Template, domain.Document, error) {
	if templateID == "" {
		templateID = theme.DefaultID
	}
	tpl, err := theme.Lookup(templateID)
	if err != nil {
		return theme.Template{}, doc, err
	}
	doc = cloneDocument(doc)
	if err := doc.Normalize(); err != nil {
		return theme.Template{}, doc, err
	}
	if err := model.ValidateDocument(doc); err != nil {
		return theme.Template{}, doc, err
	}
	return tpl, doc, nil
}

// cloneDocument copies the list sections so normalization never writes
// through to the caller's slices.
func cloneDocument(d domain.Document) domain.Document {
	d.Experience = append([]domain.Experience(nil), d.Experience...)
	d.Education = append([]domain.Education(nil), d.Education...)
	d.Skills = append([]domain.Skill(nil), d.Skills...)
	d.Projects = append([]domain.Project(nil), d.Projects...)
	return d
}
