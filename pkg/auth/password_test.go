package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("librarian123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "librarian123" || hash == "" {
		t.Fatalf("expected hashed output, got %q", hash)
	}
	if !CheckPassword("librarian123", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestCheckPasswordRejectsGarbageHash(t *testing.T) {
	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed hash to fail")
	}
}
