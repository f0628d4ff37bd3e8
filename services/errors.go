package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrInvalidValue       = errors.New("value violates a constraint")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// translateError maps GORM errors onto the service sentinels, keeping the cause in the chain
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return err
}

// ImageRemover deletes stored images by name
type ImageRemover interface {
	Delete(ctx context.Context, name string) error
}

type noopImages struct{}

func (noopImages) Delete(context.Context, string) error { return nil }

func orNoop(images ImageRemover) ImageRemover {
	if images == nil {
		return noopImages{}
	}
	return images
}

// requireRow turns a zero-row write into ErrNotFound
func requireRow(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
