package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-builder/internal/render"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromedpRenderer drives a headless Chrome to capture the preview surface
// or print a page to PDF. Every call starts its own browser.
type ChromedpRenderer struct {
	execPath string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewChromedpRenderer(execPath string, timeout time.Duration, logger *zap.Logger) *ChromedpRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromedpRenderer{execPath: execPath, timeout: timeout, logger: logger}
}

// CapturePreview screenshots the preview element at 2x device scale and
// returns the PNG.
func (r *ChromedpRenderer) CapturePreview(ctx context.Context, html []byte) ([]byte, error) {
	var png []byte
	err := r.run(ctx, html,
		chromedp.EmulateViewport(1200, 1700, chromedp.EmulateScale(2)),
		r.requireSurface(),
		chromedp.Screenshot(render.PreviewSelector, &png, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	if len(png) == 0 {
		return nil, render.ErrEmptyCapture
	}
	return png, nil
}

// PrintPDF prints the page on A4 with backgrounds. The result keeps
// selectable text.
func (r *ChromedpRenderer) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	var pdfBuf []byte
	err := r.run(ctx, html,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// requireSurface fails fast when the page has no capture element instead of
// letting Screenshot wait for the whole timeout.
func (r *ChromedpRenderer) requireSurface() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var found bool
		js := fmt.Sprintf("document.querySelector(%q) !== null", render.PreviewSelector)
		if err := chromedp.Evaluate(js, &found).Do(ctx); err != nil {
			return err
		}
		if !found {
			return render.ErrNoPreviewSurface
		}
		return nil
	})
}

func (r *ChromedpRenderer) run(ctx context.Context, html []byte, actions ...chromedp.Action) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	tctx, cancelTimeout := context.WithTimeout(cctx, r.timeout)
	defer cancelTimeout()

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return err
	}

	steps := append([]chromedp.Action{chromedp.Navigate("file://" + htmlPath)}, actions...)
	start := time.Now()
	if err := chromedp.Run(tctx, steps...); err != nil {
		r.logger.Warn("browser run failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, render.ErrNoPreviewSurface) || errors.Is(err, render.ErrCaptureUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", render.ErrCaptureUnavailable, err)
	}
	r.logger.Debug("browser run finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}
