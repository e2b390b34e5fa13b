package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"doc-chat-be/internal/config"
	"doc-chat-be/internal/dto"
	"doc-chat-be/internal/entity"
	"doc-chat-be/internal/pkg/logger"
	memrepo "doc-chat-be/internal/repository/memory"
	"doc-chat-be/pkg/rag/index"

	"github.com/gofiber/fiber/v2"
)

type stubFileRepo struct {
	mu      sync.Mutex
	files   map[string]*entity.DocumentFile
	deleted []string
}

func newStubFileRepo() *stubFileRepo {
	return &stubFileRepo{files: map[string]*entity.DocumentFile{}}
}

func (s *stubFileRepo) Create(_ context.Context, file *entity.DocumentFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.Id] = file
	return nil
}

func (s *stubFileRepo) UpdateChunksCount(_ context.Context, fileId string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[fileId]; ok {
		f.ChunksCount = count
	}
	return nil
}

func (s *stubFileRepo) Delete(_ context.Context, fileId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, fileId)
	s.deleted = append(s.deleted, fileId)
	return nil
}

func (s *stubFileRepo) FindById(_ context.Context, fileId string) (*entity.DocumentFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[fileId], nil
}

func (s *stubFileRepo) FindAll(context.Context) ([]*entity.DocumentFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.DocumentFile, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	return out, nil
}

func (s *stubFileRepo) chunksCount(fileId string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[fileId]; ok {
		return f.ChunksCount
	}
	return 0
}

func (s *stubFileRepo) seed(file *entity.DocumentFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.Id] = file
}

func (s *stubFileRepo) has(fileId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[fileId]
	return ok
}

type stubPublisher struct {
	payloads [][]byte
}

func (s *stubPublisher) Publish(_ context.Context, payload []byte) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

type testEmbedder struct{}

func (testEmbedder) Generate(context.Context, string, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func newTestFileService(t *testing.T) (IFileService, *stubFileRepo, *stubPublisher, *config.Config) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxSize = 1024
	cfg.Upload.AllowedExts = []string{".txt", ".md"}

	repo := newStubFileRepo()
	pub := &stubPublisher{}
	mgr := index.NewManager(memrepo.NewChunkStore(), nil, testEmbedder{}, "test", logger.NewNopLogger())

	return NewFileService(cfg, repo, mgr, pub, logger.NewNopLogger()), repo, pub, cfg
}

func TestUploadStoresFileAndPublishesEvent(t *testing.T) {
	svc, repo, pub, cfg := newTestFileService(t)

	res, err := svc.Upload(context.Background(), "notes.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.FileId == "" || res.Filename != "notes.txt" || res.Size != 11 {
		t.Errorf("response = %+v", res)
	}
	if !repo.has(res.FileId) {
		t.Error("metadata row not created")
	}

	stored := filepath.Join(cfg.Upload.Dir, res.FileId+".txt")
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	if len(pub.payloads) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.payloads))
	}
	var event dto.FileEmbedEvent
	if err := json.Unmarshal(pub.payloads[0], &event); err != nil {
		t.Fatal(err)
	}
	if event.FileId != res.FileId || event.Path != stored {
		t.Errorf("event = %+v", event)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	svc, _, pub, _ := newTestFileService(t)

	_, err := svc.Upload(context.Background(), "malware.exe", []byte("x"))
	if err == nil {
		t.Fatal("expected rejection of .exe")
	}
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) || fiberErr.Code != fiber.StatusBadRequest {
		t.Errorf("err = %v", err)
	}
	if len(pub.payloads) != 0 {
		t.Error("no event must be published for a rejected upload")
	}
}

func TestUploadRejectsEmptyAndOversized(t *testing.T) {
	svc, _, _, cfg := newTestFileService(t)

	if _, err := svc.Upload(context.Background(), "a.txt", nil); err == nil {
		t.Error("expected rejection of empty file")
	}

	big := make([]byte, cfg.Upload.MaxSize+1)
	if _, err := svc.Upload(context.Background(), "a.txt", big); err == nil {
		t.Error("expected rejection of oversized file")
	}
}

func TestDeleteCascades(t *testing.T) {
	svc, repo, _, cfg := newTestFileService(t)

	res, err := svc.Upload(context.Background(), "doc.md", []byte("content"))
	if err != nil {
		t.Fatal(err)
	}

	out, err := svc.Delete(context.Background(), res.FileId)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if out.FileId != res.FileId {
		t.Errorf("response = %+v", out)
	}

	if len(repo.deleted) != 1 || repo.deleted[0] != res.FileId {
		t.Error("metadata row not deleted")
	}
	stored := filepath.Join(cfg.Upload.Dir, res.FileId+".md")
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Error("stored file not removed")
	}
}

func TestDeleteUnknownFile(t *testing.T) {
	svc, _, _, _ := newTestFileService(t)

	_, err := svc.Delete(context.Background(), "missing-id")
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) || fiberErr.Code != fiber.StatusNotFound {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestListReturnsUploadedFiles(t *testing.T) {
	svc, _, _, _ := newTestFileService(t)

	if _, err := svc.Upload(context.Background(), "one.txt", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Upload(context.Background(), "two.txt", []byte("22")); err != nil {
		t.Fatal(err)
	}

	res, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 {
		t.Errorf("expected 2 files, got %d", len(res.Files))
	}
}
