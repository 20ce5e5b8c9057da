package entity

type ToolName string

const (
	ToolBrowserNavigate ToolName = "browser_navigate"
	ToolBrowserSnapshot ToolName = "browser_snapshot"
	ToolBrowserClick    ToolName = "browser_click"
	ToolBrowserType     ToolName = "browser_type"
	ToolBrowserPDF      ToolName = "browser_pdf"
	ToolBrowserBack     ToolName = "browser_back"
	ToolBrowserWait     ToolName = "browser_wait"

	ToolTaskComplete ToolName = "task_complete"
	ToolTaskFailed   ToolName = "task_failed"
)

func (t ToolName) String() string {
	return string(t)
}

// Declaration is set by a terminal tool to end the run.
type Declaration struct {
	Outcome Outcome
	Message string
}

type ToolOutput struct {
	Text        string
	Declaration *Declaration
}

func TextOutput(text string) ToolOutput {
	return ToolOutput{Text: text}
}
