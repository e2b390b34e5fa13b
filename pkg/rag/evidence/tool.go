package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/pkg/agent"
	"doc-chat-be/pkg/rag/scope"
)

// Searcher runs a similarity query against the active vector index.
type Searcher interface {
	Search(ctx context.Context, query string, sc scope.Scope, topK int) ([]*entity.ScoredChunk, error)
}

const searchToolDescription = `Retrieve information from the user's uploaded documents.

USE this tool when:
- The user explicitly asks about document contents ("what does the document say", "summarize this PDF")
- The user asks about specialized domain knowledge that may be in the documents
- The user asks to quote, look up, or verify specific information
- The user asks about details of a project, product, or technical document

DO NOT use this tool for:
- Everyday questions (weather, cooking, daily life)
- Common knowledge (how big is the Earth, what is gravity)
- Greetings and small talk
- Generic advice (how to learn programming, how to exercise)

Rule of thumb: if the answer could plausibly be in the uploaded documents, use this tool; otherwise answer directly.`

// NewSearchTool builds the search_documents tool for one request. The
// collector must be request-local: the tool closes over it, which is what
// keeps concurrently running requests from leaking evidence into each
// other's citations.
func NewSearchTool(searcher Searcher, sc scope.Scope, topK int, sink *Collector, log logger.ILogger) agent.Tool {
	return agent.Tool{
		Name:        "search_documents",
		Description: searchToolDescription,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language question to search the documents for",
				},
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, args json.RawMessage) (string, error) {
			var params struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return "invalid search arguments", nil
			}

			results, err := searcher.Search(ctx, params.Query, sc, topK)
			if err != nil {
				// Absorb retrieval failures at the tool boundary so the
				// reasoning engine can still answer from general knowledge.
				log.Error("evidence", "Document search failed", map[string]interface{}{
					"error": err.Error(),
				})
				return "Document search is temporarily unavailable. Answer from general knowledge and say that the documents could not be consulted.", nil
			}
			if len(results) == 0 {
				return "No relevant passages were found in the documents.", nil
			}

			batch := make([]Chunk, len(results))
			for i, res := range results {
				batch[i] = Chunk{
					Text:     res.Chunk.Text,
					Score:    res.Similarity,
					FileId:   res.Chunk.FileId,
					Filename: res.Chunk.Filename,
				}
			}
			sink.Capture(batch)

			log.Info("evidence", "Captured retrieval evidence", map[string]interface{}{
				"query":  params.Query,
				"chunks": len(batch),
			})

			return renderPassages(batch), nil
		},
	}
}

func renderPassages(batch []Chunk) string {
	var sb strings.Builder
	for i, c := range batch {
		fmt.Fprintf(&sb, "[passage %d | %s | score %.4f]\n%s\n\n", i+1, c.Filename, c.Score, c.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}
