package output

type PromptPort interface {
	SystemPrompt(task string) (string, error)
}
