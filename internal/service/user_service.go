package service

import (
	"context"

	"bailanysta/internal/models"
	"bailanysta/internal/repository"
	"bailanysta/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// GetProfile returns the public profile with derived counts.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.UserPublic, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	counts, err := s.userRepo.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return models.NewUserPublic(user, counts), nil
}

// GetMe returns the signed-in viewer's own profile.
func (s *UserService) GetMe(ctx context.Context, viewerID uint) (*models.UserPublic, error) {
	if viewerID == 0 {
		return nil, models.NewUnauthorizedError("sign in to view your profile")
	}
	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	counts, err := s.userRepo.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return models.NewUserPublic(user, counts), nil
}

// CreateUser registers a new account.
func (s *UserService) CreateUser(ctx context.Context, username, displayName, bio string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, models.NewValidationError("username is already taken")
	} else if !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}

	user := &models.User{
		Username:    username,
		DisplayName: validation.SanitizeText(displayName),
		Bio:         validation.SanitizeText(bio),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Follow makes followerID follow username. Following twice is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID uint, username string) error {
	followee, err := s.followTarget(ctx, followerID, username)
	if err != nil {
		return err
	}
	_, err = s.followRepo.Insert(ctx, followerID, followee.ID)
	return err
}

// Unfollow removes the edge. Unfollowing someone not followed is a no-op.
func (s *UserService) Unfollow(ctx context.Context, followerID uint, username string) error {
	followee, err := s.followTarget(ctx, followerID, username)
	if err != nil {
		return err
	}
	_, err = s.followRepo.Delete(ctx, followerID, followee.ID)
	return err
}

func (s *UserService) followTarget(ctx context.Context, followerID uint, username string) (*models.User, error) {
	if followerID == 0 {
		return nil, models.NewUnauthorizedError("sign in to follow users")
	}
	followee, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if followee.ID == followerID {
		return nil, models.NewValidationError("you cannot follow yourself")
	}
	return followee, nil
}
