package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"webpilot/internal/domain/entity"
)

// Action is the typed argument record of one tool. Each tool decodes its
// raw JSON arguments into exactly one Action type.
type Action interface {
	Tool() entity.ToolName
	validate() error
}

type NavigateAction struct {
	URL string `json:"url"`
}

func (NavigateAction) Tool() entity.ToolName { return entity.ToolBrowserNavigate }

func (a NavigateAction) validate() error {
	if strings.TrimSpace(a.URL) == "" {
		return errors.New("url is required")
	}
	return nil
}

type SnapshotAction struct{}

func (SnapshotAction) Tool() entity.ToolName { return entity.ToolBrowserSnapshot }
func (SnapshotAction) validate() error { return nil }

type ClickAction struct {
	Index *int `json:"index"`
}

func (ClickAction) Tool() entity.ToolName { return entity.ToolBrowserClick }

func (a ClickAction) validate() error {
	if a.Index == nil {
		return errors.New("index is required")
	}
	return nil
}

type TypeAction struct {
	Index  *int    `json:"index"`
	Text   *string `json:"text"`
	Submit bool    `json:"submit"`
}

func (TypeAction) Tool() entity.ToolName { return entity.ToolBrowserType }

func (a TypeAction) validate() error {
	if a.Index == nil {
		return errors.New("index is required")
	}
	if a.Text == nil {
		return errors.New("text is required")
	}
	return nil
}

type PDFAction struct {
	Filename string `json:"filename"`
}

func (PDFAction) Tool() entity.ToolName { return entity.ToolBrowserPDF }

func (a PDFAction) validate() error {
	if strings.TrimSpace(a.Filename) == "" {
		return errors.New("filename is required")
	}
	return nil
}

type BackAction struct{}

func (BackAction) Tool() entity.ToolName { return entity.ToolBrowserBack }
func (BackAction) validate() error { return nil }

type WaitAction struct {
	Seconds *float64 `json:"seconds"`
}

func (WaitAction) Tool() entity.ToolName { return entity.ToolBrowserWait }

func (a WaitAction) validate() error {
	if a.Seconds == nil {
		return errors.New("seconds is required")
	}
	return nil
}

type CompleteAction struct {
	Summary *string `json:"summary"`
}

func (CompleteAction) Tool() entity.ToolName { return entity.ToolTaskComplete }

func (a CompleteAction) validate() error {
	if a.Summary == nil {
		return errors.New("summary is required")
	}
	return nil
}

type FailAction struct {
	Reason *string `json:"reason"`
}

func (FailAction) Tool() entity.ToolName { return entity.ToolTaskFailed }

func (a FailAction) validate() error {
	if a.Reason == nil {
		return errors.New("reason is required")
	}
	return nil
}

func decode[A Action](arguments string) (A, error) {
	var action A
	raw := strings.TrimSpace(arguments)
	if raw == "" || raw == "null" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), &action); err != nil {
		return action, entity.NewArgumentError(action.Tool().String(), fmt.Errorf("invalid arguments: %w", err))
	}
	if err := action.validate(); err != nil {
		return action, entity.NewArgumentError(action.Tool().String(), err)
	}
	return action, nil
}
