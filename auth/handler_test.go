package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/credential"
	"github.com/skillsenselab/classboard/auth/keyexchange"
	"github.com/skillsenselab/classboard/auth/password"
	"github.com/skillsenselab/classboard/auth/token"
	"github.com/skillsenselab/classboard/logger"
)

type fakeStore struct {
	creds map[string]*credential.Credential
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*credential.Credential, error) {
	c, ok := f.creds[email]
	if !ok {
		return nil, credential.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.creds[email]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, c *credential.Credential) error {
	f.creds[c.Email] = c
	return nil
}

func (f *fakeStore) UpdateRole(_ context.Context, id, role string) error {
	for _, c := range f.creds {
		if c.ID == id {
			c.Role = role
			return nil
		}
	}
	return credential.ErrNotFound
}

func newTestHandler(t *testing.T) (*gin.Engine, *keyexchange.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kx, err := keyexchange.New()
	if err != nil {
		t.Fatalf("keyexchange.New failed: %v", err)
	}
	tokens, err := token.NewService(&token.Config{
		Secret: "0123456789abcdef0123456789abcdef",
		TTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("token.NewService failed: %v", err)
	}

	log := logger.NewDefault("test")
	store := &fakeStore{creds: map[string]*credential.Credential{}}
	hasher := password.NewHasher(password.Config{BcryptCost: 4})
	creds := credential.NewService(store, hasher, kx, tokens, log)

	r := gin.New()
	NewHandler(creds, kx, log).Register(r)
	return r, kx
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicKeyEndpoint(t *testing.T) {
	r, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/auth/public-key", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			PublicKey string `json:"public_key"`
			Algorithm string `json:"algorithm"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Data.PublicKey == "" || resp.Data.Algorithm != "RSA" {
		t.Errorf("unexpected payload: %+v", resp.Data)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	r, _ := newTestHandler(t)

	w := postJSON(r, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Data struct {
			Token     string `json:"token"`
			TokenType string `json:"token_type"`
			Role      string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if created.Data.Token == "" || created.Data.TokenType != "Bearer" {
		t.Errorf("unexpected token payload: %+v", created.Data)
	}
	if created.Data.Role != credential.RoleStudent {
		t.Errorf("expected role student, got %s", created.Data.Role)
	}

	// Duplicate registration.
	w = postJSON(r, "/api/auth/register",
		`{"name":"Mallory","email":"alice@example.com","password":"other"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %d", w.Code)
	}

	// Login with the right and wrong password.
	w = postJSON(r, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 on login, got %d: %s", w.Code, w.Body.String())
	}
	w = postJSON(r, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 on wrong password, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INVALID_CREDENTIALS") {
		t.Errorf("expected INVALID_CREDENTIALS, got %s", w.Body.String())
	}
}

func TestRegister_EncryptedFlow(t *testing.T) {
	r, kx := newTestHandler(t)

	ciphertext, err := kx.Encrypt("secret123")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	w := postJSON(r, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","encrypted_password":"`+ciphertext+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(r, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRotateKeys_InvalidatesOldCiphertext(t *testing.T) {
	r, kx := newTestHandler(t)

	stale, err := kx.Encrypt("secret123")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	w := postJSON(r, "/api/admin/keys/rotate", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on rotate, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(r, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","encrypted_password":"`+stale+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for stale ciphertext, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "DECRYPTION_FAILED") {
		t.Errorf("expected DECRYPTION_FAILED, got %s", w.Body.String())
	}
}
