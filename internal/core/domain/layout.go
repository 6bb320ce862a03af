package domain

const (
	// TargetFileName is the name of the target declaration file.
	TargetFileName = "mason.yaml"

	// DefaultGenerationCacheSize is the number of recent action graph
	// generations kept for reuse.
	DefaultGenerationCacheSize = 2
)
