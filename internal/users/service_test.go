package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

func TestGetProfileDefaultsToEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubUsersRepo())
	userID := uuid.New()

	profile, err := svc.GetProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.ShippingAddress != nil {
		t.Fatal("expected empty prefill for a fresh customer")
	}
	if profile.UserID != userID {
		t.Fatalf("unexpected user id %s", profile.UserID)
	}
}

func TestUpdateProfileRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubUsersRepo())
	userID := uuid.New()
	address := types.ShippingAddress{
		FullName: "Priya Sharma",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560001",
	}

	saved, err := svc.UpdateProfile(context.Background(), userID, address)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if saved.ShippingAddress == nil || saved.ShippingAddress.Pincode != "560001" {
		t.Fatalf("unexpected saved address %+v", saved.ShippingAddress)
	}

	profile, err := svc.GetProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.ShippingAddress == nil || profile.ShippingAddress.City != "Bengaluru" {
		t.Fatalf("expected persisted prefill, got %+v", profile.ShippingAddress)
	}
}

func TestUpdateProfileRejectsIncompleteAddress(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubUsersRepo())

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), types.ShippingAddress{FullName: "Priya"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMeRequiresIdentity(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubUsersRepo())

	_, err := svc.Me(context.Background(), uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

type stubUsersRepo struct {
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{
		users:    map[uuid.UUID]*models.User{},
		profiles: map[uuid.UUID]*models.Profile{},
	}
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var list []models.User
	for _, user := range s.users {
		list = append(list, *user)
	}
	return list, int64(len(list)), nil
}

func (s *stubUsersRepo) FindProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) UpsertProfile(ctx context.Context, userID uuid.UUID, address types.ShippingAddress) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		profile = &models.Profile{ID: uuid.New(), UserID: userID}
		s.profiles[userID] = profile
	}
	profile.ShippingAddress = &address
	return profile, nil
}
