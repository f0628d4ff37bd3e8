package services

import (
	"context"
	"errors"

	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/utils/auth"
	"gorm.io/gorm"
)

// AdminService authenticates back-office operators
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates a new admin service
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Authenticate checks an admin's username and password
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}

// Get loads one admin
func (s *AdminService) Get(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &admin, nil
}
