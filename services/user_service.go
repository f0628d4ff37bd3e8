package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/utils/auth"
	"gorm.io/gorm"
)

// RegisterInput carries a new student account
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	ProfilePicture string
}

// UserService manages student accounts
type UserService struct {
	db     *gorm.DB
	images ImageRemover
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, images ImageRemover) *UserService {
	return &UserService{db: db, images: orNoop(images)}
}

// Register creates an account. A taken username or email fails with ErrDuplicate.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	db := s.db.WithContext(ctx)

	var n int64
	err := db.Model(&model.User{}).
		Where("username = ? OR email = ?", in.Username, strings.ToLower(in.Email)).
		Count(&n).Error
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicate
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Username:       in.Username,
		Email:          strings.ToLower(in.Email),
		PasswordHash:   hash,
		ProfilePicture: in.ProfilePicture,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Authenticate finds the account by username or email and checks the password
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get loads one account
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// ListAll returns every account ordered by username
func (s *UserService) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// Delete removes an account and its profile picture
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireRow(s.db.WithContext(ctx).Delete(&model.User{}, id)); err != nil {
		return err
	}
	if user.ProfilePicture != "" {
		if err := s.images.Delete(ctx, user.ProfilePicture); err != nil {
			log.Printf("Warning: failed to delete profile picture %s: %v", user.ProfilePicture, err)
		}
	}
	return nil
}

// Count returns the number of accounts
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}
