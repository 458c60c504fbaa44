package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

type repo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	FindProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, address types.ShippingAddress) (*models.Profile, error)
}

// Service exposes account reads plus the saved checkout prefill.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	EmailByID(ctx context.Context, userID uuid.UUID) (string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, address types.ShippingAddress) (*ProfileDTO, error)

	List(ctx context.Context, limit, offset int) (*UserListResult, error)
}

type service struct {
	repo repo
}

// NewService constructs the users service.
func NewService(repository repo) (Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repository}, nil
}

// Me returns the caller's account.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// EmailByID resolves the identity's email for checkout prefill.
func (s *service) EmailByID(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// GetProfile returns the saved shipping prefill. A customer without one reads
// as an empty profile, not an error.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}

	profile, err := s.repo.FindProfileByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProfileDTO{UserID: userID, UpdatedAt: time.Time{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profileFromModel(profile), nil
}

// UpdateProfile saves the shipping prefill for future checkouts.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, address types.ShippingAddress) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	if !address.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "all address fields are required")
	}

	profile, err := s.repo.UpsertProfile(ctx, userID, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return profileFromModel(profile), nil
}

// List returns a page of accounts for the back-office.
func (s *service) List(ctx context.Context, limit, offset int) (*UserListResult, error) {
	records, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	list := make([]UserDTO, 0, len(records))
	for _, record := range records {
		list = append(list, *FromModel(&record))
	}
	return &UserListResult{Users: list, Total: total}, nil
}
