package password

import (
	"errors"
	"strings"
	"testing"
)

// low-cost bcrypt keeps the test suite fast
func testBcrypt() Hasher {
	return NewHasher(Config{Algorithm: AlgorithmBcrypt, BcryptCost: 4})
}

func TestHash_NeverEqualsPlaintext(t *testing.T) {
	for name, h := range map[string]Hasher{
		"bcrypt":   testBcrypt(),
		"argon2id": NewHasher(Config{Algorithm: AlgorithmArgon2id, Argon2Memory: 8 * 1024}),
	} {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("secret123")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if hash == "secret123" {
				t.Error("hash must not equal plaintext")
			}
			if !strings.HasPrefix(hash, "$") {
				t.Errorf("hash should embed its own parameters, got %q", hash)
			}
		})
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := testBcrypt()
	h1, _ := h.Hash("secret123")
	h2, _ := h.Hash("secret123")
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestVerify(t *testing.T) {
	for name, h := range map[string]Hasher{
		"bcrypt":   testBcrypt(),
		"argon2id": NewHasher(Config{Algorithm: AlgorithmArgon2id, Argon2Memory: 8 * 1024}),
	} {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("secret123")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if err := h.Verify("secret123", hash); err != nil {
				t.Errorf("expected match, got %v", err)
			}
			if err := h.Verify("wrong", hash); !errors.Is(err, ErrMismatch) {
				t.Errorf("expected ErrMismatch, got %v", err)
			}
		})
	}
}

func TestHash_LengthPolicy(t *testing.T) {
	h := testBcrypt()
	if _, err := h.Hash("short"); err == nil {
		t.Error("expected error for password below minimum length")
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for password above bcrypt limit")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"bad algorithm", Config{Algorithm: "md5"}, true},
		{"bad cost", Config{BcryptCost: 99}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
