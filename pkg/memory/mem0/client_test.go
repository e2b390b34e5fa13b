package mem0

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doc-chat-be/pkg/llm"
)

func TestCreateSessionRequiresApiKey(t *testing.T) {
	c := NewClient("", "http://localhost:1", 5)

	if _, err := c.CreateSession(context.Background(), "alice"); err == nil {
		t.Fatal("expected an error without an api key")
	}
}

func TestCreateSessionPingsBackend(t *testing.T) {
	var pinged bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/ping/" {
			pinged = true
			if auth := r.Header.Get("Authorization"); auth != "Token key" {
				t.Errorf("auth header = %q", auth)
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, 5)
	sess, err := c.CreateSession(context.Background(), "alice")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess == nil || !pinged {
		t.Error("session must be created after a successful ping")
	}
}

func TestCreateSessionFailsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", srv.URL, 5)
	if _, err := c.CreateSession(context.Background(), "alice"); err == nil {
		t.Fatal("expected an error on 401 ping")
	}
}

func TestRetrieveRendersMemories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/ping/":
			w.WriteHeader(http.StatusOK)
		case "/v1/memories/search/":
			var req searchRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.UserId != "alice" || req.Query != "food" || req.Limit != 2 {
				t.Errorf("search request = %+v", req)
			}
			fmt.Fprint(w, `[{"memory":"likes ramen"},{"memory":"is vegetarian"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, 2)
	sess, err := c.CreateSession(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}

	out, err := sess.Retrieve(context.Background(), "food")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !strings.Contains(out, "likes ramen") || !strings.Contains(out, "is vegetarian") {
		t.Errorf("rendered memories = %q", out)
	}
	if !strings.HasPrefix(out, "## What you remember") {
		t.Errorf("missing prompt heading: %q", out)
	}
}

func TestRetrieveEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/ping/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, 5)
	sess, _ := c.CreateSession(context.Background(), "alice")

	out, err := sess.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("expected empty rendering, got %q", out)
	}
}

func TestAddMapsModelRole(t *testing.T) {
	var got addRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/ping/":
			w.WriteHeader(http.StatusOK)
		case "/v1/memories/":
			json.NewDecoder(r.Body).Decode(&got)
			fmt.Fprint(w, `{}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, 5)
	sess, _ := c.CreateSession(context.Background(), "alice")

	err := sess.Add(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got.UserId != "alice" || len(got.Messages) != 2 {
		t.Fatalf("add request = %+v", got)
	}
	if got.Messages[1].Role != "assistant" {
		t.Errorf("model role not mapped: %+v", got.Messages[1])
	}
}
