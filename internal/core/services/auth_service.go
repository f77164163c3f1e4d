package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreamersunited/fieldline/internal/core/domain"
)

type AuthService struct {
	irRepo    domain.IRRepository
	notifRepo domain.NotificationRepository
}

func NewAuthService(irRepo domain.IRRepository, notifRepo domain.NotificationRepository) *AuthService {
	return &AuthService{
		irRepo:    irRepo,
		notifRepo: notifRepo,
	}
}

type RegisterInput struct {
	ID          string
	Name        string
	Email       string
	Password    string
	AccessLevel int
	ParentID    string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.IR, error) {
	level := domain.AccessLevel(input.AccessLevel)
	if input.AccessLevel == 0 {
		level = domain.AccessIR
	}

	ir, err := domain.NewIR(input.ID, input.Name, input.Email, level)
	if err != nil {
		return nil, err
	}

	if err := ir.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if input.ParentID != "" {
		parent, err := s.irRepo.GetByID(ctx, input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("auth service: parent lookup failed: %w", err)
		}
		if err := ir.SetParent(parent); err != nil {
			return nil, err
		}
	}

	if err := s.irRepo.Create(ctx, ir); err != nil {
		return nil, fmt.Errorf("auth service: failed to create ir: %w", err)
	}

	if ir.ParentID != nil {
		// Registration must not fail on a notification write.
		n := domain.NewNotification(*ir.ParentID, domain.NotificationNewIR,
			"New IR registered", fmt.Sprintf("%s joined your downline", ir.Name), ir.ID)
		_ = s.notifRepo.Create(ctx, n)
	}

	return ir, nil
}

type LoginInput struct {
	ID       string
	Password string
}

// Login verifies credentials and returns the IR. Token issuance is the
// handler's job via TokenService.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.IR, error) {
	ir, err := s.irRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrIRNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: lookup failed: %w", err)
	}

	if !ir.Active {
		return nil, domain.ErrInvalidCredentials
	}

	if err := ir.CheckPassword(input.Password); err != nil {
		return nil, err
	}

	return ir, nil
}
