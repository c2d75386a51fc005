package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog entry. Pinned posts sort ahead of everything else.
type Post struct {
	ID          string     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"not null" json:"content"`
	IsPinned    bool       `gorm:"not null;default:false" json:"isPinned"`
	IsPublished bool       `gorm:"not null;default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Project is a portfolio entry with an externally hosted image.
type Project struct {
	ID          string    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Image       string    `gorm:"not null" json:"image"`
	WebsiteLink *string   `json:"websiteLink"`
	GithubLink  *string   `json:"githubLink"`
	YoutubeLink *string   `json:"youtubeLink"`
	IsPinned    bool      `gorm:"not null;default:false" json:"isPinned"`
	IsPublished bool      `gorm:"not null;default:false" json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Log is a short journal entry tagged with a free-text category.
type Log struct {
	ID          string    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"not null" json:"content"`
	Category    string    `gorm:"not null" json:"category"`
	IsPublished bool      `gorm:"not null;default:false" json:"isPublished"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Comment is a guestbook entry owned by the user who wrote it.
type Comment struct {
	ID        string    `gorm:"primarykey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"userId"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentAuthor is the public slice of a comment's user.
type CommentAuthor struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// CommentWithAuthor is the guestbook list row shape.
type CommentWithAuthor struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	User      CommentAuthor `json:"user"`
}
