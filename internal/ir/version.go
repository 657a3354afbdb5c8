package ir

// Version constants for the schema model and generator.
const (
	// SchemaVersion is the node schema format version.
	SchemaVersion = "1"

	// GeneratorVersion is the nodegen generator version.
	GeneratorVersion = "0.1.0"
)
