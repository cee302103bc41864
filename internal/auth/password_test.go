package auth

import "testing"

func TestCheckPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !CheckPassword("password123", digest) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword("password124", digest) {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestCheckPasswordMalformedDigest(t *testing.T) {
	if CheckPassword("password123", "not-a-bcrypt-digest") {
		t.Fatal("expected malformed digest to verify as false")
	}
	if CheckPassword("password123", "") {
		t.Fatal("expected empty digest to verify as false")
	}
}

func TestHashPasswordEmbedsSalt(t *testing.T) {
	first, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Fatal("expected two hashes of the same password to differ")
	}
	if !CheckPassword("password123", first) || !CheckPassword("password123", second) {
		t.Fatal("expected both digests to verify")
	}
}
