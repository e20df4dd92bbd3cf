package models

import (
	"context"
	"errors"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User is a console login. Transport-level auth (sessions, OTP delivery)
// lives outside this backend; we only store the identity and hash.
type User struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Name         string    `gorm:"size:100" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpsertUser creates or refreshes a console user with a bcrypt-hashed
// password.
func UpsertUser(ctx context.Context, username string, name string, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, utils.NewValidationError("USERNAME_PASSWORD_REQUIRED", "username and password are required")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := User{
		Username:     username,
		Name:         name,
		PasswordHash: hashed,
		IsActive:     true,
	}
	db := config.GetDB()
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "is_active"}),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks a username/password pair against the stored hash.
func Authenticate(ctx context.Context, username string, password string) (*User, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("username = ? AND is_active = true", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("USER_NOT_FOUND", "user not found")
		}
		return nil, err
	}
	if err := utils.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, utils.NewValidationError("INVALID_CREDENTIALS", "invalid credentials")
	}
	return &user, nil
}
