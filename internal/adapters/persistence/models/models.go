package models

import (
	"time"

	"libmanager-backend/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Identity Store
// ============================================================

// User represents users table
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FullName      string         `gorm:"size:100;not null" json:"full_name"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	Role          domain.Role    `gorm:"size:20;default:'USER'" json:"role"`
	Avatar        string         `gorm:"size:255" json:"avatar"`
	BirthDate     string         `gorm:"size:10" json:"birth_date"` // ISO date YYYY-MM-DD
	DarkMode      bool           `gorm:"default:false" json:"dark_mode"`
	Notifications bool           `gorm:"default:true" json:"notifications"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint        `json:"id"`
	Username      string      `json:"username"`
	FullName      string      `json:"full_name"`
	Role          domain.Role `json:"role"`
	Avatar        string      `json:"avatar,omitempty"`
	BirthDate     string      `json:"birth_date,omitempty"`
	DarkMode      bool        `json:"dark_mode"`
	Notifications bool        `json:"notifications"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		Role:          u.Role,
		Avatar:        u.Avatar,
		BirthDate:     u.BirthDate,
		DarkMode:      u.DarkMode,
		Notifications: u.Notifications,
		CreatedAt:     u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Store
// ============================================================

// Book represents books table. AvailableStock is the number of copies not
// currently reserved or on loan; it never exceeds TotalStock and never
// drops below zero.
type Book struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:200;not null;index" json:"title"`
	Author         string         `gorm:"size:100;not null" json:"author"`
	Category       string         `gorm:"size:50;index" json:"category"`
	PublishYear    int            `json:"publish_year"`
	TotalStock     int            `gorm:"not null" json:"total_stock"`
	AvailableStock int            `gorm:"not null" json:"available_stock"`
	ImageURL       string         `gorm:"size:255" json:"image_url"`
	Description    string         `gorm:"type:text" json:"description"`
	Language       string         `gorm:"size:50" json:"language"`
	Translator     string         `gorm:"size:100" json:"translator"`
	Publisher      string         `gorm:"size:100" json:"publisher"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// ============================================================
// Lending Engine
// ============================================================

// BorrowRecord represents borrow_records table. UserName and BookTitle are
// denormalized snapshots taken at admission; the record is the permanent
// audit trail and is never deleted (no soft-delete column on purpose).
type BorrowRecord struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	UserID     uint                `gorm:"not null;index" json:"user_id"`
	UserName   string              `gorm:"size:100;not null" json:"user_name"`
	BookID     uint                `gorm:"not null;index" json:"book_id"`
	BookTitle  string              `gorm:"size:200;not null" json:"book_title"`
	BorrowDate time.Time           `gorm:"not null" json:"borrow_date"`
	DueDate    time.Time           `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time          `json:"return_date"`
	Status     domain.BorrowStatus `gorm:"size:20;not null;index" json:"status"`
	FineAmount int64               `gorm:"not null;default:0" json:"fine_amount"`
	Notes      string              `gorm:"size:255" json:"notes"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}

// IsOverdue reports the derived overdue display state for an active loan
func (r *BorrowRecord) IsOverdue(now time.Time) bool {
	return r.Status == domain.BorrowActive && now.After(r.DueDate)
}

// ============================================================
// Edit-Request Queue
// ============================================================

// UserEditRequest represents user_edit_requests table. It carries the full
// proposed profile as a flattened snapshot; at most one pending request
// exists per target user (a new proposal supersedes the old row).
type UserEditRequest struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	TargetUserID      uint        `gorm:"uniqueIndex;not null" json:"target_user_id"`
	TargetCurrentName string      `gorm:"size:100" json:"target_current_name"`
	RequestedBy       string      `gorm:"size:50;not null" json:"requested_by"` // librarian username
	RequestedAt       time.Time   `gorm:"not null" json:"requested_at"`
	NewFullName       string      `gorm:"size:100" json:"new_full_name"`
	NewUsername       string      `gorm:"size:50" json:"new_username"`
	NewRole           domain.Role `gorm:"size:20" json:"new_role"`
	NewPassword       string      `gorm:"size:255" json:"-"` // already hashed; empty = keep
	NewAvatar         string      `gorm:"size:255" json:"new_avatar"`
	NewBirthDate      string      `gorm:"size:10" json:"new_birth_date"`
}

func (UserEditRequest) TableName() string {
	return "user_edit_requests"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates/updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Book{},
		&BorrowRecord{},
		&UserEditRequest{},
	)
}
