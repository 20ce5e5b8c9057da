package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"webpilot/internal/domain/entity"
)

// InteractiveSelector matches every element the model may act on. Snapshot
// and index resolution both query it.
const InteractiveSelector = `a, button, input, textarea, select, [role="button"], [onclick]`

const (
	maxLabelLen       = 80
	maxBodyTextLen    = 3000
	maxReportElements = 50
	maxReportLabelLen = 50
	maxReportTextLen  = 1500
)

// snapshotScript returns every match of the selector with its client rect
// and label candidates. Filtering happens in Go.
const snapshotScript = `(selector) => {
	const items = [];
	document.querySelectorAll(selector).forEach((el) => {
		const rect = el.getBoundingClientRect();
		items.push({
			tag: el.tagName.toLowerCase(),
			type: el.type || null,
			text: el.innerText || el.value || el.placeholder || el.ariaLabel || '',
			href: el.href || null,
			width: rect.width,
			height: rect.height,
			top: rect.top
		});
	});
	const body = document.body ? (document.body.innerText || '') : '';
	return {viewportHeight: window.innerHeight, items: items, text: body.slice(0, 3000)};
}`

type rawElement struct {
	Tag    string  `json:"tag"`
	Type   *string `json:"type"`
	Text   string  `json:"text"`
	Href   *string `json:"href"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
}

type rawSnapshot struct {
	ViewportHeight float64      `json:"viewportHeight"`
	Items          []rawElement `json:"items"`
	Text           string       `json:"text"`
}

// indexElements keeps rendered elements no lower than two viewport heights
// and numbers them from zero in query order.
func indexElements(raw rawSnapshot) []entity.ElementRecord {
	limit := raw.ViewportHeight * 2
	records := make([]entity.ElementRecord, 0, len(raw.Items))
	for _, item := range raw.Items {
		if item.Width <= 0 || item.Height <= 0 {
			continue
		}
		if item.Top > limit {
			continue
		}
		records = append(records, entity.ElementRecord{
			Index:       len(records),
			Tag:         item.Tag,
			ElementType: nonEmpty(item.Type),
			Text:        truncate(item.Text, maxLabelLen),
			Href:        nonEmpty(item.Href),
		})
	}
	return records
}

func (c *Controller) capture(ctx context.Context) (*entity.PageSnapshot, error) {
	title, err := c.page.Title(ctx)
	if err != nil {
		c.logger.Warn("Failed to read page title", "error", err)
	}

	data, err := c.page.Evaluate(ctx, snapshotScript, InteractiveSelector)
	if err != nil {
		return nil, err
	}

	var raw rawSnapshot
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	}

	return &entity.PageSnapshot{
		URL:      c.page.URL(),
		Title:    title,
		Elements: indexElements(raw),
		Text:     truncate(raw.Text, maxBodyTextLen),
	}, nil
}

// Snapshot describes the active page and replaces the element cache with
// the full element list.
func (c *Controller) Snapshot(ctx context.Context) (string, error) {
	snap, err := c.capture(ctx)
	if err != nil {
		c.elements = nil
		return "", entity.NewEngineError("snapshot", err)
	}
	c.elements = snap.Elements

	c.logger.Debug("Snapshot taken", "url", snap.URL, "elements", len(snap.Elements), "textLen", len(snap.Text))
	return formatSnapshot(snap), nil
}

// Elements returns the cached list from the last snapshot.
func (c *Controller) Elements() []entity.ElementRecord {
	return c.elements
}

func formatSnapshot(snap *entity.PageSnapshot) string {
	lines := make([]string, 0, maxReportElements)
	for i, el := range snap.Elements {
		if i >= maxReportElements {
			break
		}
		lines = append(lines, fmt.Sprintf("[%d] <%s> %s", el.Index, el.Tag, truncate(el.Text, maxReportLabelLen)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", snap.URL)
	fmt.Fprintf(&b, "Title: %s\n\n", snap.Title)
	b.WriteString("Interactive elements:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nPage text (truncated):\n")
	b.WriteString(truncate(snap.Text, maxReportTextLen))
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
