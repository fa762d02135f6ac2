package usecase

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"

	"resume-builder/internal/adapter/events"
	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

type fakeCapturer struct {
	mu       sync.Mutex
	captures int
	prints   int
	failures int // first n calls fail
	err      error
	output   []byte // overrides the generated capture
}

func (f *fakeCapturer) next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	return nil
}

func (f *fakeCapturer) CapturePreview(_ context.Context, html []byte) ([]byte, error) {
	f.mu.Lock()
	f.captures++
	f.mu.Unlock()
	if err := f.next(); err != nil {
		return nil, err
	}
	if f.output != nil {
		return f.output, nil
	}
	img := image.NewRGBA(image.Rect(0, 0, 210, 400))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes(), nil
}

func (f *fakeCapturer) PrintPDF(_ context.Context, html []byte) ([]byte, error) {
	f.mu.Lock()
	f.prints++
	f.mu.Unlock()
	if err := f.next(); err != nil {
		return nil, err
	}
	return []byte("%PDF-1.4 vector"), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memoryRepo struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]domain.Draft
}

func newMemoryRepo() *memoryRepo { return &memoryRepo{drafts: map[uuid.UUID]domain.Draft{}} }

func (r *memoryRepo) Insert(_ context.Context, d *domain.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = *d
	return nil
}

func (r *memoryRepo) Update(_ context.Context, d *domain.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.drafts[d.ID]
	if !ok || cur.UserID != d.UserID {
		return domain.ErrDraftNotFound
	}
	r.drafts[d.ID] = *d
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok || !d.OwnedBy(userID) {
		return nil, domain.ErrDraftNotFound
	}
	return &d, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Draft{}
	for _, d := range r.drafts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok || d.UserID != userID {
		return domain.ErrDraftNotFound
	}
	delete(r.drafts, id)
	return nil
}
