package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer grounds a generated answer in retrieved passages.
	// The template takes two %s placeholders: the question, then the
	// passages, each followed by "\n---\n".
	PromptAnswer = "answer"
)

// DefaultAnswerPrompt is the built-in PromptAnswer template.
const DefaultAnswerPrompt = "Use the passages to answer the question: %s\n Passages:\n%sAnswer concisely."

// PromptStoreAware is implemented by services whose prompts can be customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store. Without one the built-in
	// templates are used.
	SetPromptStore(store PromptStore)
}
