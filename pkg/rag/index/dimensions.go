package index

// Vector widths by embedding model name. Dimensionality cannot be derived
// from a model without invoking it, so the mapping is explicit; unrecognized
// models fall back to the small default.
const defaultDimension = 1536

var modelDimensions = map[string]int{
	"text-embedding-3-large": 3072,
	"text-embedding-3-small": 1536,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
}

func DimensionFor(model string) int {
	if dim, ok := modelDimensions[model]; ok {
		return dim
	}
	return defaultDimension
}
