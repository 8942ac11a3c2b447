package service

import (
	"context"
	"fmt"

	"agenda/internal/apperr"
	"agenda/internal/model"
	"agenda/internal/repository"
	"agenda/internal/storage"
	"agenda/internal/utils"

	"go.uber.org/zap"
)

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, in model.RegisterInput, photo *storage.Upload) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtUtil    *utils.JWTUtil
	photos     storage.PhotoStore
	bcryptCost int
	log        *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, photos storage.PhotoStore, bcryptCost int, log *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtUtil:    jwtUtil,
		photos:     photos,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register creates a new user account. No token is issued; the client logs in afterwards.
func (s *authService) Register(ctx context.Context, in model.RegisterInput, photo *storage.Upload) (*model.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, apperr.Conflict("email", apperr.MsgAccountEmailTaken)
	}

	hashedPassword, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashedPassword,
	}
	if photo != nil {
		ref, err := s.photos.Save(ctx, storage.PrefixUsers, *photo)
		if err != nil {
			return nil, err
		}
		user.PhotoPath = &ref
	}

	// A concurrent registration can still win the race; the unique index reports it as a conflict.
	if err := s.userRepo.Create(ctx, user); err != nil {
		discardPhoto(ctx, s.photos, s.log, user.PhotoPath)
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperr.Unauthorized(apperr.MsgInvalidCredentials)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// discardPhoto removes a stored photo, logging instead of failing.
func discardPhoto(ctx context.Context, photos storage.PhotoStore, log *zap.Logger, ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := photos.Delete(ctx, *ref); err != nil {
		log.Warn("failed to remove photo", zap.String("photo", *ref), zap.Error(err))
	}
}
