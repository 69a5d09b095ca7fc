package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxProjectNameLength = 255

	// MaxPromptLength is the maximum length of a suggestion prompt.
	// The serialized project is sent alongside it, so the prompt
	// itself is kept short.
	MaxPromptLength = 4000

	// MaxChangesPerBatch caps how many changes one suggestion or apply
	// request may carry.
	MaxChangesPerBatch = 200

	// DefaultPageLimit is the page size when a list request omits limit.
	DefaultPageLimit = 10

	// MaxPageLimit is the largest page a list request may ask for.
	MaxPageLimit = 100
)
