package auth

import (
	"context"
	"fmt"

	pkgauth "github.com/beqaperanidze/prj-customer-notification/pkg/auth"
	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"
	"github.com/beqaperanidze/prj-customer-notification/pkg/security"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*pkgauth.Claims, error)
}

type Service struct {
	repo   repository.AdminRepository
	jwtSvc pkgauth.JWTService
	hasher security.PasswordHasher
}

func NewService(repo repository.AdminRepository, jwtSvc pkgauth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		jwtSvc: jwtSvc,
		hasher: hasher,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	taken, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, apperrors.Validation("username is already taken")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	admin := &model.Admin{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	token, err := s.jwtSvc.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{Token: token}, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	admin, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := s.hasher.Compare(admin.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.jwtSvc.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{Token: token}, nil
}

func (s *Service) ValidateToken(_ context.Context, token string) (*pkgauth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return claims, nil
}
