package config

// DuplicateConfig holds settings for duplicate game detection.
type DuplicateConfig struct {
	// Suppress drops games whose final position was already seen
	Suppress bool

	// ExactMatch also requires equal ply counts
	ExactMatch bool

	// MaxCapacity bounds the stored signatures, 0 for unlimited
	MaxCapacity int
}

// NewDuplicateConfig creates a DuplicateConfig with default values.
func NewDuplicateConfig() *DuplicateConfig {
	return &DuplicateConfig{}
}
