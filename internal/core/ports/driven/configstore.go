package driven

// ConfigStore holds flat, dot-notation settings keys ("llm.provider").
// Typed getters return the zero value for missing keys and wrong types.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt accepts any integer representation the backend decodes.
	GetInt(key string) int

	// GetFloat widens integers.
	GetFloat(key string) float64

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current values to storage.
	Save() error

	// Load replaces the current values with those in storage.
	Load() error

	// Path identifies the backing file.
	Path() string
}
