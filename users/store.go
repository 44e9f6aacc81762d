package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skillsenselab/classboard/auth/credential"
	"github.com/skillsenselab/classboard/database"
)

// GormStore is the database-backed credential.Store.
type GormStore struct {
	db *database.DB
}

// NewGormStore creates the store.
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

// FindByEmail looks up an account by its (normalized) email.
func (s *GormStore) FindByEmail(ctx context.Context, email string) (*credential.Credential, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credential.ErrNotFound
		}
		return nil, err
	}
	return u.toCredential(), nil
}

// ExistsByEmail reports whether an account with the email exists.
func (s *GormStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Create persists a new account.
func (s *GormStore) Create(ctx context.Context, c *credential.Credential) error {
	u := User{
		Email:        c.Email,
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
	}
	u.ID = c.ID
	return s.db.WithContext(ctx).Create(&u).Error
}

// UpdateRole changes an account's role.
func (s *GormStore) UpdateRole(ctx context.Context, id, role string) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return credential.ErrNotFound
	}
	return nil
}

// CountByRole returns the number of accounts per role.
func (s *GormStore) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Role] = r.Count
	}
	return out, nil
}

// List returns a page of accounts ordered by creation time, newest
// first, with the total count.
func (s *GormStore) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []User
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, total, err
}
