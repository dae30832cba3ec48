package credential

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashIsSaltedAndVerifies(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)

	h1, err := b.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := b.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct salts, got identical hashes")
	}
	if h1 == "pw" {
		t.Fatalf("hash must not be the plaintext")
	}
	if !b.Verify(h1, "pw") || !b.Verify(h2, "pw") {
		t.Fatalf("both hashes should verify")
	}
	if b.Verify(h1, "pX") {
		t.Fatalf("one-character change should not verify")
	}
}

func TestBcrypt_VerifyMalformed(t *testing.T) {
	b := NewBcrypt(bcrypt.MinCost)
	for _, stored := range []string{"", "plain", "$2a$10$short"} {
		if b.Verify(stored, "plain") {
			t.Fatalf("malformed credential %q verified", stored)
		}
	}
}

func TestNewBcrypt_CostFallback(t *testing.T) {
	if got := NewBcrypt(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcrypt(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcrypt(bcrypt.MinCost).cost; got != bcrypt.MinCost {
		t.Fatalf("expected min cost, got %d", got)
	}
}
