package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	enrollmentRepo domain.EnrollmentRepository
	speakerRepo    domain.SpeakerRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	auditor        domain.Auditor
	tokenExpiry    time.Duration
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewUserService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	enrollmentRepo domain.EnrollmentRepository,
	speakerRepo domain.SpeakerRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	auditor domain.Auditor,
	tokenExpiry time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		enrollmentRepo: enrollmentRepo,
		speakerRepo:    speakerRepo,
		hasher:         hasher,
		issuer:         issuer,
		auditor:        auditor,
		tokenExpiry:    tokenExpiry,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("list roles: %w", err)
	}
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}

	token, err := s.issuer.Issue(user.ID, user.Email, domain.PermissionsForRoles(codes), s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *userService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	role, err := s.roleRepo.GetByCode(ctx, domain.RoleAttendee)
	if err != nil {
		return nil, fmt.Errorf("get attendee role: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GrantRole(ctx context.Context, actorID, userID, roleCode string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	role, err := s.roleRepo.GetByCode(ctx, roleCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("get role: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, userID, role.ID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	s.auditor.Record(ctx, actorID, "user.grant_role", "user", userID, map[string]string{"role": roleCode})
	return nil
}

// Delete refuses to remove a user who still owns enrollments or a speaker
// profile.
func (s *userService) Delete(ctx context.Context, actorID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	n, err := s.enrollmentRepo.CountByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("count enrollments: %w", err)
	}
	if n > 0 {
		return domain.ErrUserHasRecords
	}
	if _, err := s.speakerRepo.GetByUserID(ctx, userID); err == nil {
		return domain.ErrUserHasRecords
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get speaker by user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.auditor.Record(ctx, actorID, "user.delete", "user", userID, changeDetail{Before: before})
	return nil
}
