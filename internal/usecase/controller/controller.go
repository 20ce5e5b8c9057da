package controller

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

const (
	defaultNewPageTimeout = 3 * time.Second
	maxClickLabelLen      = 30
	minWaitSeconds        = 1
	maxWaitSeconds        = 10
)

type Config struct {
	OutputDir      string
	NewPageTimeout time.Duration
	// VerifyLabels compares the live element text against the cached label
	// before acting and logs a warning when they differ. The action still
	// runs.
	VerifyLabels bool
}

// Controller owns the active page and the element cache of one session.
// Indexed actions resolve against the live page, by position, at call time.
type Controller struct {
	page           output.PagePort
	elements       []entity.ElementRecord
	outputDir      string
	newPageTimeout time.Duration
	verifyLabels   bool
	logger         output.LoggerPort
	sleep          func(ctx context.Context, d time.Duration) error
}

func New(page output.PagePort, logger output.LoggerPort, cfg Config) *Controller {
	if cfg.NewPageTimeout <= 0 {
		cfg.NewPageTimeout = defaultNewPageTimeout
	}
	return &Controller{
		page:           page,
		outputDir:      cfg.OutputDir,
		newPageTimeout: cfg.NewPageTimeout,
		verifyLabels:   cfg.VerifyLabels,
		logger:         logger,
		sleep:          sleepContext,
	}
}

// ActivePage is the page actions currently run against.
func (c *Controller) ActivePage() output.PagePort {
	return c.page
}

func (c *Controller) Navigate(ctx context.Context, url string) (string, error) {
	if err := c.page.Goto(ctx, url); err != nil {
		return "", entity.NewEngineError("navigate", err)
	}
	return fmt.Sprintf("Navigated to %s", url), nil
}

func (c *Controller) Click(ctx context.Context, index int) (string, error) {
	record, err := c.cached("click", index)
	if err != nil {
		return "", err
	}

	el, err := c.resolve(ctx, "click", index)
	if err != nil {
		return "", err
	}
	c.checkLabel(ctx, el, record)

	label := truncate(record.Text, maxClickLabelLen)

	opened, err := c.page.ExpectNewPage(ctx, c.newPageTimeout, func() error {
		return el.Click(ctx)
	})
	if err != nil {
		return "", entity.NewEngineError("click", err)
	}

	if opened != nil {
		c.page = opened
		c.logger.Info("Click opened a new page", "index", index)
		if err := c.page.WaitForLoadState(ctx); err != nil {
			return "", entity.NewEngineError("click", err)
		}
		return fmt.Sprintf("Clicked element [%d]: %s (opened new tab)", index, label), nil
	}

	if err := c.page.WaitForLoadState(ctx); err != nil {
		return "", entity.NewEngineError("click", err)
	}
	return fmt.Sprintf("Clicked element [%d]: %s", index, label), nil
}

func (c *Controller) TypeText(ctx context.Context, index int, text string, submit bool) (string, error) {
	record, err := c.cached("type", index)
	if err != nil {
		return "", err
	}

	el, err := c.resolve(ctx, "type", index)
	if err != nil {
		return "", err
	}
	c.checkLabel(ctx, el, record)

	if err := el.Fill(ctx, text); err != nil {
		return "", entity.NewEngineError("type", err)
	}
	if submit {
		if err := el.Press(ctx, "Enter"); err != nil {
			return "", entity.NewEngineError("type", err)
		}
		if err := c.page.WaitForLoadState(ctx); err != nil {
			return "", entity.NewEngineError("type", err)
		}
	}
	return fmt.Sprintf("Typed '%s' into element [%d]", text, index), nil
}

// PDFPath is where SavePDF writes filename.
func (c *Controller) PDFPath(filename string) string {
	if !strings.HasSuffix(filename, ".pdf") {
		filename += ".pdf"
	}
	return filepath.Join(c.outputDir, filename)
}

func (c *Controller) SavePDF(ctx context.Context, filename string) (string, error) {
	path := c.PDFPath(filename)
	if err := c.page.PDF(ctx, path); err != nil {
		return "", entity.NewEngineError("pdf", err)
	}
	return fmt.Sprintf("Saved PDF to %s", path), nil
}

func (c *Controller) GoBack(ctx context.Context) (string, error) {
	if err := c.page.GoBack(ctx); err != nil {
		return "", entity.NewEngineError("back", err)
	}
	if err := c.page.WaitForLoadState(ctx); err != nil {
		return "", entity.NewEngineError("back", err)
	}
	return "Went back to previous page", nil
}

// ClampWait bounds a requested wait to [1, 10] seconds.
func ClampWait(seconds float64) float64 {
	if seconds < minWaitSeconds {
		return minWaitSeconds
	}
	if seconds > maxWaitSeconds {
		return maxWaitSeconds
	}
	return seconds
}

func (c *Controller) Wait(ctx context.Context, seconds float64) (string, error) {
	seconds = ClampWait(seconds)
	d := time.Duration(seconds * float64(time.Second))
	if err := c.sleep(ctx, d); err != nil {
		return "", entity.NewEngineError("wait", err)
	}
	return fmt.Sprintf("Waited %gs", seconds), nil
}

func (c *Controller) Screenshot(ctx context.Context) ([]byte, error) {
	return c.page.Screenshot(ctx)
}

func (c *Controller) cached(op string, index int) (entity.ElementRecord, error) {
	if index < 0 || index >= len(c.elements) {
		return entity.ElementRecord{}, entity.NewResolutionError(op,
			"invalid element index %d: out of range, last snapshot has %d elements", index, len(c.elements))
	}
	return c.elements[index], nil
}

// resolve re-queries the page and returns the index-th visible element.
// It trusts that the visible set has not changed since the last snapshot.
func (c *Controller) resolve(ctx context.Context, op string, index int) (output.ElementPort, error) {
	handles, err := c.page.QueryAll(ctx, InteractiveSelector)
	if err != nil {
		return nil, entity.NewEngineError(op, err)
	}

	visible := 0
	for _, h := range handles {
		box, err := h.BoundingBox(ctx)
		if err != nil || box == nil || box.Width <= 0 || box.Height <= 0 {
			continue
		}
		if visible == index {
			return h, nil
		}
		visible++
	}
	return nil, entity.NewResolutionError(op,
		"could not find element %d: out of range, page has %d visible elements", index, visible)
}

func (c *Controller) checkLabel(ctx context.Context, el output.ElementPort, record entity.ElementRecord) {
	if !c.verifyLabels || record.Text == "" {
		return
	}
	live, err := el.Text(ctx)
	if err != nil {
		c.logger.Debug("Label check skipped", "index", record.Index, "error", err)
		return
	}
	if !labelsMatch(record.Text, live) {
		c.logger.Warn("Element label changed since snapshot",
			"index", record.Index, "cached", record.Text, "live", truncate(live, maxLabelLen))
	}
}

func labelsMatch(cached, live string) bool {
	a := strings.ToLower(strings.TrimSpace(cached))
	b := strings.ToLower(strings.TrimSpace(truncate(live, maxLabelLen)))
	if a == "" || b == "" {
		return true
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("wait interrupted"), ctx.Err())
	}
}
