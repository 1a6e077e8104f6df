package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// fastParams keeps the hashing tests quick.
var fastParams = &Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("testpassword123", fastParams)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("expected 6 parts in hash, got %d", len(parts))
	}
}

func TestHashPasswordUniqueness(t *testing.T) {
	h1, err := HashPassword("samepassword", fastParams)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("samepassword", fastParams)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("hashing the same password twice should use different salts")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", fastParams)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"match", "correct horse", true},
		{"mismatch", "battery staple", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("VerifyPassword failed: %v", err)
			}
			if ok != tt.want {
				t.Errorf("VerifyPassword(%q) = %v, want %v", tt.password, ok, tt.want)
			}
		})
	}
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	tests := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	}
	for _, encoded := range tests {
		if _, err := VerifyPassword("x", encoded); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("VerifyPassword(%q) error = %v, want ErrInvalidHash", encoded, err)
		}
	}
}

func TestSetAdminPassword(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()

	if err := SetAdminPassword(store, "short"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for short password, got %v", err)
	}
	if has, _ := store.HasAdminPassword(); has {
		t.Fatal("rejected password should not be stored")
	}

	if err := SetAdminPassword(store, "longenough"); err != nil {
		t.Fatalf("SetAdminPassword failed: %v", err)
	}
	hash, err := store.GetAdminPasswordHash()
	if err != nil {
		t.Fatal(err)
	}
	ok, err := VerifyPassword("longenough", hash)
	if err != nil || !ok {
		t.Errorf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}
