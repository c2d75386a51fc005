package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User rows are written by the external auth provider; this service only reads them.
type User struct {
	ID            string    `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"not null;uniqueIndex" json:"email"`
	EmailVerified bool      `gorm:"not null" json:"emailVerified"`
	Image         *string   `json:"image"`
	Role          string    `gorm:"not null;default:user" json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Session maps an opaque bearer token to a user until it expires.
type Session struct {
	ID        string    `gorm:"primarykey" json:"id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	IPAddress *string   `json:"ipAddress"`
	UserAgent *string   `json:"userAgent"`
	UserID    string    `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Account links a user to an OAuth provider identity.
type Account struct {
	ID                    string     `gorm:"primarykey" json:"id"`
	AccountID             string     `gorm:"not null" json:"accountId"`
	ProviderID            string     `gorm:"not null" json:"providerId"`
	UserID                string     `gorm:"not null;index" json:"userId"`
	User                  User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AccessToken           *string    `json:"-"`
	RefreshToken          *string    `json:"-"`
	IDToken               *string    `json:"-"`
	AccessTokenExpiresAt  *time.Time `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	Scope                 *string    `json:"scope"`
	Password              *string    `json:"-"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Verification holds short-lived challenge values issued by the auth provider.
type Verification struct {
	ID         string    `gorm:"primarykey" json:"id"`
	Identifier string    `gorm:"not null" json:"identifier"`
	Value      string    `gorm:"not null" json:"value"`
	ExpiresAt  time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (v *Verification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
