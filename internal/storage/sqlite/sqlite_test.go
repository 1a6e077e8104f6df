package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mandalnilabja/logview/internal/storage/encryption"
	"github.com/mandalnilabja/logview/internal/storage/models"
)

func setupTestDB(t *testing.T) (*Storage, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "logview-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	enc, err := encryption.NewFromPassphrase("test-passphrase")
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create encryptor: %v", err)
	}

	storage, err := New(filepath.Join(tmpDir, "test.db"), enc)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create storage: %v", err)
	}

	cleanup := func() {
		storage.Close()
		os.RemoveAll(tmpDir)
	}
	return storage, cleanup
}

func strPtr(s string) *string { return &s }

func seedLogs(t *testing.T, s *Storage) {
	t.Helper()

	logs := []*models.ContentLog{
		{CreatedAt: 1000, Type: 2, Username: "alice", TokenName: "t1", ModelName: "gpt-4o", Group: "default",
			PromptTokens: 10, CompletionTokens: 20, Quota: 500, ChannelID: 1,
			RequestContent: strPtr(`{"a":1}`), ResponseContent: strPtr("ok")},
		{CreatedAt: 2000, Type: 2, Username: "bob", TokenName: "t2", ModelName: "gpt-4o-mini", Group: "vip",
			Quota: 100, ChannelID: 2},
		{CreatedAt: 3000, Type: 3, Username: "alice", TokenName: "t1", ModelName: "claude-3", Group: "default",
			ChannelID: 1},
		{CreatedAt: 4000, Type: 2, Username: "carol", TokenName: "t3", ModelName: "gpt-4o", Group: "default",
			ChannelID: 9},
	}
	for _, l := range logs {
		if err := s.InsertContentLog(l); err != nil {
			t.Fatalf("InsertContentLog failed: %v", err)
		}
		if l.ID == 0 {
			t.Fatal("expected ID to be assigned")
		}
	}

	if err := s.UpsertChannel(&models.Channel{ID: 1, Name: "primary"}); err != nil {
		t.Fatalf("UpsertChannel failed: %v", err)
	}
	if err := s.UpsertChannel(&models.Channel{ID: 2, Name: "backup"}); err != nil {
		t.Fatalf("UpsertChannel failed: %v", err)
	}
}

func TestListContentLogsNewestFirst(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedLogs(t, s)

	logs, err := s.ListContentLogs(models.ContentLogFilter{})
	if err != nil {
		t.Fatalf("ListContentLogs failed: %v", err)
	}
	if len(logs) != 4 {
		t.Fatalf("expected 4 logs, got %d", len(logs))
	}
	if logs[0].Username != "carol" || logs[3].Username != "alice" {
		t.Errorf("expected newest first, got %s ... %s", logs[0].Username, logs[3].Username)
	}
	if logs[0].ChannelName != "" {
		t.Errorf("unknown channel should have empty name, got %q", logs[0].ChannelName)
	}
	if logs[3].ChannelName != "primary" {
		t.Errorf("expected channel name primary, got %q", logs[3].ChannelName)
	}
}

func TestContentRoundTrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedLogs(t, s)

	logs, err := s.ListContentLogs(models.ContentLogFilter{Username: "alice", Type: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].RequestContent == nil || *logs[0].RequestContent != `{"a":1}` {
		t.Errorf("request content not restored: %v", logs[0].RequestContent)
	}
	if logs[0].ResponseContent == nil || *logs[0].ResponseContent != "ok" {
		t.Errorf("response content not restored: %v", logs[0].ResponseContent)
	}

	bob, err := s.ListContentLogs(models.ContentLogFilter{Username: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if bob[0].RequestContent != nil || bob[0].ResponseContent != nil {
		t.Error("missing content should stay nil")
	}
}

func TestContentEncryptedAtRest(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedLogs(t, s)

	var raw sql.NullString
	err := s.db.QueryRow("SELECT request_content FROM content_logs WHERE username = 'alice' AND type = 2").Scan(&raw)
	if err != nil {
		t.Fatal(err)
	}
	if !raw.Valid || raw.String == `{"a":1}` {
		t.Errorf("request content stored in plaintext: %q", raw.String)
	}
}

func TestContentLogFilters(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedLogs(t, s)

	one := 1
	tests := []struct {
		name   string
		filter models.ContentLogFilter
		want   int64
	}{
		{"all", models.ContentLogFilter{}, 4},
		{"type", models.ContentLogFilter{Type: 2}, 3},
		{"username", models.ContentLogFilter{Username: "alice"}, 2},
		{"token", models.ContentLogFilter{TokenName: "t2"}, 1},
		{"model exact", models.ContentLogFilter{ModelName: "gpt-4o"}, 2},
		{"model pattern", models.ContentLogFilter{ModelName: "gpt-4o%"}, 3},
		{"group", models.ContentLogFilter{Group: "vip"}, 1},
		{"channel", models.ContentLogFilter{ChannelID: &one}, 2},
		{"start", models.ContentLogFilter{StartTimestamp: 2000}, 3},
		{"end", models.ContentLogFilter{EndTimestamp: 2000}, 2},
		{"range", models.ContentLogFilter{StartTimestamp: 1500, EndTimestamp: 3500}, 2},
		{"combined", models.ContentLogFilter{Type: 2, Username: "alice", ChannelID: &one}, 1},
		{"no match", models.ContentLogFilter{Username: "nobody"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := s.CountContentLogs(tt.filter)
			if err != nil {
				t.Fatalf("CountContentLogs failed: %v", err)
			}
			if total != tt.want {
				t.Errorf("count = %d, want %d", total, tt.want)
			}

			logs, err := s.ListContentLogs(tt.filter)
			if err != nil {
				t.Fatalf("ListContentLogs failed: %v", err)
			}
			if int64(len(logs)) != tt.want {
				t.Errorf("list returned %d logs, want %d", len(logs), tt.want)
			}
		})
	}
}

func TestListContentLogsPaging(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedLogs(t, s)

	page, err := s.ListContentLogs(models.ContentLogFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(page))
	}
	if page[0].CreatedAt != 2000 || page[1].CreatedAt != 1000 {
		t.Errorf("unexpected second page: %d, %d", page[0].CreatedAt, page[1].CreatedAt)
	}

	// Paging does not affect the count.
	total, err := s.CountContentLogs(models.ContentLogFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
}

func TestDeleteContentLogs(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedLogs(t, s)

	deleted, err := s.DeleteContentLogs(3000)
	if err != nil {
		t.Fatalf("DeleteContentLogs failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	total, _ := s.CountContentLogs(models.ContentLogFilter{})
	if total != 2 {
		t.Errorf("expected 2 remaining, got %d", total)
	}
}

func TestChannels(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	if err := s.UpsertChannel(&models.Channel{ID: 0, Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero id, got %v", err)
	}
	if err := s.UpsertChannel(&models.Channel{ID: 3, Name: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty name, got %v", err)
	}

	if err := s.UpsertChannel(&models.Channel{ID: 3, Name: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertChannel(&models.Channel{ID: 3, Name: "new"}); err != nil {
		t.Fatal(err)
	}

	channels, err := s.ListChannels()
	if err != nil {
		t.Fatal(err)
	}
	if len(channels) != 1 || channels[0].Name != "new" {
		t.Errorf("expected one renamed channel, got %+v", channels)
	}
}

func TestAdminPassword(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	has, err := s.HasAdminPassword()
	if err != nil || has {
		t.Fatalf("fresh database should have no password: has=%v err=%v", has, err)
	}

	if err := s.SetAdminPasswordHash("first"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAdminPasswordHash("second"); err != nil {
		t.Fatal(err)
	}

	hash, err := s.GetAdminPasswordHash()
	if err != nil {
		t.Fatal(err)
	}
	if hash != "second" {
		t.Errorf("expected second, got %q", hash)
	}
}

func TestClosedStorage(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	if _, err := s.ListContentLogs(models.ContentLogFilter{}); !errors.Is(err, ErrStorageClosed) {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
	if err := s.InsertContentLog(&models.ContentLog{}); !errors.Is(err, ErrStorageClosed) {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
	if err := s.Ping(); !errors.Is(err, ErrStorageClosed) {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
}

func TestReopenKeepsGroupColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	s, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InsertContentLog(&models.ContentLog{CreatedAt: 1, Group: "g"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = New(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	total, err := s.CountContentLogs(models.ContentLogFilter{Group: "g"})
	if err != nil || total != 1 {
		t.Errorf("expected 1 log in group g, got %d (err=%v)", total, err)
	}
}
