package evidence

import "sync"

// Chunk is one retrieved passage with its relevance score and source
// attribution. Score range depends on the similarity metric; with normalized
// cosine it falls in [0, 1].
type Chunk struct {
	Text     string
	Score    float64
	FileId   string
	Filename string
}

// Collector captures the evidence retrieved during a single request. One
// collector is created per request and threaded through the search tool as a
// closure capture, never stored on a shared service object, so concurrent
// requests cannot see each other's evidence.
//
// Evidence accumulates across tool invocations within the request, in
// retrieval order; each batch keeps the descending-score order the index
// returned it in.
type Collector struct {
	mu     sync.Mutex
	chunks []Chunk
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Capture(batch []Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, batch...)
}

// Chunks returns a copy of everything captured so far.
func (c *Collector) Chunks() []Chunk {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Chunk, len(c.chunks))
	copy(out, c.chunks)
	return out
}
