package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Records persisted by the reference backend (internal/devserver). The real
// hosted backend owns the equivalent tables; these exist so the client core
// can be exercised end to end without it.

type UserRecord struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Username   string    `gorm:"uniqueIndex" json:"username"`
	Points     int       `gorm:"default:0" json:"points"`
	StreakDays int       `gorm:"default:0" json:"streakDays"`
}

func (UserRecord) TableName() string {
	return "users"
}

type SubmissionStatus string

const (
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

type SubmissionRecord struct {
	ID          string           `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	UserID      string           `gorm:"index;uniqueIndex:idx_user_activity" json:"userId"`
	ActivityID  string           `gorm:"uniqueIndex:idx_user_activity" json:"activityId"`
	Category    Category         `gorm:"type:text" json:"category"`
	Points      int              `json:"points"`
	Description string           `gorm:"type:text" json:"description"`
	MediaURL    string           `json:"mediaUrl"`
	Status      SubmissionStatus `gorm:"type:text;default:'APPROVED'" json:"status"`
}

func (SubmissionRecord) TableName() string {
	return "submissions"
}

func (s *SubmissionRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return
}

type PostRecord struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	AuthorID  string    `gorm:"index" json:"authorId"`
	Content   string    `gorm:"type:text" json:"content"`
	LikeCount int       `gorm:"default:0" json:"likeCount"`
}

func (PostRecord) TableName() string {
	return "posts"
}

func (p *PostRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return
}

type PostLikeRecord struct {
	PostID    string    `gorm:"primaryKey;type:text" json:"postId"`
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostLikeRecord) TableName() string {
	return "post_likes"
}
