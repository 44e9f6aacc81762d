package users

import (
	"github.com/skillsenselab/classboard/auth/credential"
	"github.com/skillsenselab/classboard/database"
)

// User is the stored account record.
type User struct {
	database.BaseModel
	Email        string `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Name         string `gorm:"type:text;not null" json:"name"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Role         string `gorm:"type:text;not null;default:student" json:"role"`
}

// TableName overrides GORM's default pluralization.
func (User) TableName() string { return "users" }

// Profile is the outward representation of a user.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ToProfile converts a stored user to its outward shape.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toCredential maps the stored record to the auth core's view.
func (u *User) toCredential() *credential.Credential {
	return &credential.Credential{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
