package mem0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"doc-chat-be/pkg/llm"
	"doc-chat-be/pkg/memory"
)

// Client talks to a mem0-style memory backend (the hosted platform or a
// self-hosted server) over its REST API.
type Client struct {
	apiKey  string
	baseURL string
	limit   int
	client  *http.Client
}

var _ memory.Store = &Client{}

func NewClient(apiKey, baseURL string, searchLimit int) *Client {
	if baseURL == "" {
		baseURL = "https://api.mem0.ai"
	}
	if searchLimit <= 0 {
		searchLimit = 5
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   searchLimit,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSession verifies the backend is reachable before handing out a
// session, so a misconfigured backend is caught once and cached as disabled
// by the adapter instead of failing every conversation.
func (c *Client) CreateSession(ctx context.Context, userId string) (memory.Session, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("mem0 api key is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/ping/", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mem0 backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mem0 ping failed (status %d): %s", resp.StatusCode, string(body))
	}

	return &session{client: c, userId: userId}, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)
}

type session struct {
	client *Client
	userId string
}

type searchRequest struct {
	Query  string `json:"query"`
	UserId string `json:"user_id"`
	Limit  int    `json:"limit"`
}

type memoryRecord struct {
	Memory string `json:"memory"`
}

type addRequest struct {
	Messages []wireMessage `json:"messages"`
	UserId   string        `json:"user_id"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Retrieve searches the user's memories and renders them as a prompt block.
// Zero results yield an empty string.
func (s *session) Retrieve(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(searchRequest{
		Query:  query,
		UserId: s.userId,
		Limit:  s.client.limit,
	})
	if err != nil {
		return "", err
	}

	respBody, err := s.client.post(ctx, "/v1/memories/search/", body)
	if err != nil {
		return "", err
	}

	var records []memoryRecord
	if err := json.Unmarshal(respBody, &records); err != nil {
		return "", fmt.Errorf("decode mem0 search response: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("## What you remember about this user\n")
	for _, r := range records {
		if r.Memory == "" {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(r.Memory)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (s *session) Add(ctx context.Context, messages []llm.Message) error {
	wire := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role == "model" {
			role = "assistant"
		}
		wire = append(wire, wireMessage{Role: role, Content: m.Content})
	}

	body, err := json.Marshal(addRequest{
		Messages: wire,
		UserId:   s.userId,
	})
	if err != nil {
		return err
	}

	_, err = s.client.post(ctx, "/v1/memories/", body)
	return err
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mem0 request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mem0 error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
