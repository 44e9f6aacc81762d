// Package credential orchestrates registration and login on top of the
// key exchange, password hashing, and token services.
//
// The service owns the security decisions the HTTP layer must not make:
// which failures collapse into the generic invalid-credentials error,
// when a transport-encrypted payload may be reported as undecryptable,
// and which role a fresh account receives. Persistence is a port; the
// users package provides the GORM-backed implementation.
package credential

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/validation"
)

// Roles known to the platform. Registration always assigns RoleStudent;
// RoleAdmin is only reachable through ElevateRole behind an admin-gated
// route. A client-declared role at registration is never honored.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// ValidRole reports whether r names a known role.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleAdmin
}

// ErrNotFound is returned by Store implementations when no credential
// matches.
var ErrNotFound = errors.New("credential: not found")

// Credential is the stored account record as the auth core sees it.
type Credential struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store is the persistence port for credentials.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, c *Credential) error
	UpdateRole(ctx context.Context, id, role string) error
}

// Decrypter recovers a plaintext secret from transport ciphertext.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// Issuer signs a bearer token for an authenticated identity.
type Issuer interface {
	Issue(userID, email, role string) (string, error)
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// RegisterInput is the registration request shape. Role is accepted for
// wire compatibility with existing clients but only validated, never
// honored — see RoleStudent above.
type RegisterInput struct {
	Name              string `validate:"required,max=100"`
	Email             string `validate:"required,email"`
	Password          string `validate:"required_without=EncryptedPassword"`
	EncryptedPassword string `validate:"omitempty,base64"`
	Role              string `validate:"omitempty,oneof=student admin"`
}

// LoginInput is the login request shape.
type LoginInput struct {
	Email             string `validate:"required,email"`
	Password          string `validate:"required_without=EncryptedPassword"`
	EncryptedPassword string `validate:"omitempty,base64"`
}

// Result is returned by both Register and Login on success.
type Result struct {
	Token    string
	Identity string
	Role     string
}

// Service orchestrates the credential flows.
type Service struct {
	store     Store
	hasher    Hasher
	decrypter Decrypter
	issuer    Issuer
	log       *logger.Logger

	registrations metric.Int64Counter
	logins        metric.Int64Counter
}

// NewService wires the credential service.
func NewService(store Store, hasher Hasher, decrypter Decrypter, issuer Issuer, log *logger.Logger) *Service {
	meter := otel.Meter("classboard/auth")
	registrations, _ := meter.Int64Counter("auth.registrations")
	logins, _ := meter.Int64Counter("auth.logins")

	return &Service{
		store:         store,
		hasher:        hasher,
		decrypter:     decrypter,
		issuer:        issuer,
		log:           log.WithComponent("credential"),
		registrations: registrations,
		logins:        logins,
	}
}

// Register creates an account and issues its first token.
//
// Failure order matters: a duplicate identity is rejected before any
// crypto work, an undecryptable payload aborts before anything is
// persisted (reported distinctly — no account exists yet to protect),
// and no partial account is ever left behind.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if exists {
		s.count(ctx, s.registrations, "duplicate")
		return nil, apperrors.AlreadyExists("user").WithDetail("field", "email")
	}

	plaintext, err := s.resolvePassword(in.Password, in.EncryptedPassword)
	if err != nil {
		s.count(ctx, s.registrations, "decrypt_failed")
		return nil, apperrors.DecryptionFailed()
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, apperrors.InvalidInput("password", err.Error())
	}

	cred := &Credential{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         RoleStudent,
	}
	if err := s.store.Create(ctx, cred); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	tok, err := s.issuer.Issue(cred.ID, cred.Email, cred.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.count(ctx, s.registrations, "success")
	s.log.Info("user registered", logger.Fields(logger.FieldEmail, cred.Email, logger.FieldRole, cred.Role))
	return &Result{Token: tok, Identity: cred.Email, Role: cred.Role}, nil
}

// Login verifies credentials and issues a token. Unknown identity,
// undecryptable payload, and password mismatch are indistinguishable to
// the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	if err := validation.Struct(in); err != nil {
		return nil, apperrors.InvalidCredentials()
	}
	email := normalizeEmail(in.Email)

	cred, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.count(ctx, s.logins, "failure")
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.DatabaseError(err)
	}

	plaintext, err := s.resolvePassword(in.Password, in.EncryptedPassword)
	if err != nil {
		s.count(ctx, s.logins, "failure")
		return nil, apperrors.InvalidCredentials()
	}

	if err := s.hasher.Verify(plaintext, cred.PasswordHash); err != nil {
		s.count(ctx, s.logins, "failure")
		return nil, apperrors.InvalidCredentials()
	}

	tok, err := s.issuer.Issue(cred.ID, cred.Email, cred.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.count(ctx, s.logins, "success")
	s.log.Debug("user logged in", logger.Fields(logger.FieldEmail, cred.Email))
	return &Result{Token: tok, Identity: cred.Email, Role: cred.Role}, nil
}

// ElevateRole changes an account's role. Reachable only through the
// admin-gated route; the service itself does not re-check the caller.
func (s *Service) ElevateRole(ctx context.Context, userID, role string) error {
	if !ValidRole(role) {
		return apperrors.InvalidInput("role", "role must be student or admin")
	}
	if err := s.store.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.NotFound("user", userID)
		}
		return apperrors.DatabaseError(err)
	}
	s.log.Info("role changed", logger.Fields(logger.FieldUserID, userID, logger.FieldRole, role))
	return nil
}

// resolvePassword picks the encrypted payload when present, falling
// back to the plaintext field.
func (s *Service) resolvePassword(password, encrypted string) (string, error) {
	if encrypted == "" {
		return password, nil
	}
	return s.decrypter.Decrypt(encrypted)
}

func (s *Service) count(ctx context.Context, counter metric.Int64Counter, outcome string) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
