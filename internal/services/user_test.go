package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

func newUserService(userRepo *fakeUserRepo, roleRepo *fakeRoleRepo, enrRepo *fakeEnrollmentRepo,
	spkRepo *fakeSpeakerRepo, hasher *fakePasswordHasher, issuer *fakeTokenIssuer, auditor *fakeAuditor) domain.UserService {
	return NewUserService(userRepo, roleRepo, enrRepo, spkRepo, hasher, issuer, auditor, time.Hour, testLogger(), time.Second)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeUserRepo, *fakeRoleRepo) {
		userRepo := newFakeUserRepo()
		userRepo.add(&domain.User{ID: "user-1", Email: "maria@example.com", PasswordHash: "h", Salt: "s"})
		roleRepo := newFakeRoleRepo()
		roleRepo.byUser["user-1"] = []*domain.Role{{ID: "r1", Code: domain.RoleAdmin}}
		return userRepo, roleRepo
	}

	t.Run("issues a token carrying the role permissions", func(t *testing.T) {
		userRepo, roleRepo := setup()
		issuer := &fakeTokenIssuer{token: "jwt-123"}
		svc := newUserService(userRepo, roleRepo, newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, issuer, &fakeAuditor{})

		token, user, err := svc.Login(ctx, "maria@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "jwt-123", token)
		assert.Equal(t, "user-1", user.ID)
		assert.Contains(t, issuer.permissionsSeen, domain.PermEventsWrite)
		assert.Equal(t, time.Hour, issuer.expirySeen)
	})

	t.Run("email lookup is case and whitespace insensitive", func(t *testing.T) {
		userRepo, roleRepo := setup()
		svc := newUserService(userRepo, roleRepo, newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{token: "t"}, &fakeAuditor{})

		_, _, err := svc.Login(ctx, "  MARIA@example.com ", "secret")
		require.NoError(t, err)
	})

	t.Run("unknown email maps to ErrInvalidCredentials", func(t *testing.T) {
		svc := newUserService(newFakeUserRepo(), newFakeRoleRepo(), newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		_, _, err := svc.Login(ctx, "ghost@example.com", "x")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong password maps to ErrInvalidCredentials", func(t *testing.T) {
		userRepo, roleRepo := setup()
		hasher := &fakePasswordHasher{compareErr: errors.New("mismatch")}
		svc := newUserService(userRepo, roleRepo, newFakeEnrollmentRepo(), newFakeSpeakerRepo(), hasher, &fakeTokenIssuer{}, &fakeAuditor{})

		_, _, err := svc.Login(ctx, "maria@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	roleRepo := func() *fakeRoleRepo {
		r := newFakeRoleRepo()
		r.byCode[domain.RoleAttendee] = &domain.Role{ID: "r-att", Code: domain.RoleAttendee}
		return r
	}

	t.Run("creates the user and grants the attendee role", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		hasher := &fakePasswordHasher{salt: "s1", hash: "h1"}
		svc := newUserService(userRepo, roleRepo(), newFakeEnrollmentRepo(), newFakeSpeakerRepo(), hasher, &fakeTokenIssuer{}, &fakeAuditor{})

		got, err := svc.Register(ctx, "Maria@Example.com", "secret123", "Maria Souza")
		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", got.Email)
		assert.Equal(t, "h1", got.PasswordHash)
		assert.Equal(t, "s1", got.Salt)
		assert.Contains(t, userRepo.assignments, "user-new:r-att")
	})

	t.Run("existing email maps to ErrDuplicate", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		userRepo.add(&domain.User{ID: "user-1", Email: "maria@example.com"})
		svc := newUserService(userRepo, roleRepo(), newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		_, err := svc.Register(ctx, "maria@example.com", "secret123", "Maria")
		require.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("blank fields map to ErrInvalidInput", func(t *testing.T) {
		svc := newUserService(newFakeUserRepo(), roleRepo(), newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		_, err := svc.Register(ctx, "", "secret", "Maria")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.Register(ctx, "a@b.com", "", "Maria")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.Register(ctx, "a@b.com", "secret", "   ")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUserService_GrantRole(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeUserRepo, *fakeRoleRepo) {
		userRepo := newFakeUserRepo()
		userRepo.add(&domain.User{ID: "user-1", Email: "maria@example.com"})
		roleRepo := newFakeRoleRepo()
		roleRepo.byCode[domain.RoleOrganizer] = &domain.Role{ID: "r-org", Code: domain.RoleOrganizer}
		return userRepo, roleRepo
	}

	t.Run("grants and audits", func(t *testing.T) {
		userRepo, roleRepo := setup()
		auditor := &fakeAuditor{}
		svc := newUserService(userRepo, roleRepo, newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, auditor)

		require.NoError(t, svc.GrantRole(ctx, "admin-1", "user-1", domain.RoleOrganizer))
		assert.Contains(t, userRepo.assignments, "user-1:r-org")
		assert.Equal(t, "user.grant_role", auditor.last().Action)
	})

	t.Run("unknown role code maps to ErrInvalidInput", func(t *testing.T) {
		userRepo, roleRepo := setup()
		svc := newUserService(userRepo, roleRepo, newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		require.ErrorIs(t, svc.GrantRole(ctx, "admin-1", "user-1", "superuser"), domain.ErrInvalidInput)
	})

	t.Run("unknown user maps to ErrNotFound", func(t *testing.T) {
		_, roleRepo := setup()
		svc := newUserService(newFakeUserRepo(), roleRepo, newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		require.ErrorIs(t, svc.GrantRole(ctx, "admin-1", "ghost", domain.RoleOrganizer), domain.ErrNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	setup := func() *fakeUserRepo {
		userRepo := newFakeUserRepo()
		userRepo.add(&domain.User{ID: "user-1", Email: "maria@example.com"})
		return userRepo
	}

	t.Run("deletes a user without records", func(t *testing.T) {
		userRepo := setup()
		auditor := &fakeAuditor{}
		svc := newUserService(userRepo, newFakeRoleRepo(), newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, auditor)

		require.NoError(t, svc.Delete(ctx, "admin-1", "user-1"))
		assert.Contains(t, userRepo.deleted, "user-1")
		assert.Equal(t, "user.delete", auditor.last().Action)
	})

	t.Run("enrollments block the delete", func(t *testing.T) {
		userRepo := setup()
		enrRepo := newFakeEnrollmentRepo()
		enrRepo.countByUser["user-1"] = 2
		svc := newUserService(userRepo, newFakeRoleRepo(), enrRepo, newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		require.ErrorIs(t, svc.Delete(ctx, "admin-1", "user-1"), domain.ErrUserHasRecords)
		assert.Empty(t, userRepo.deleted)
	})

	t.Run("a speaker profile blocks the delete", func(t *testing.T) {
		userRepo := setup()
		spkRepo := newFakeSpeakerRepo()
		spkRepo.add(&domain.Speaker{ID: "spk-1", UserID: "user-1"})
		svc := newUserService(userRepo, newFakeRoleRepo(), newFakeEnrollmentRepo(), spkRepo, &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		require.ErrorIs(t, svc.Delete(ctx, "admin-1", "user-1"), domain.ErrUserHasRecords)
	})

	t.Run("unknown user maps to ErrNotFound", func(t *testing.T) {
		svc := newUserService(newFakeUserRepo(), newFakeRoleRepo(), newFakeEnrollmentRepo(), newFakeSpeakerRepo(), &fakePasswordHasher{}, &fakeTokenIssuer{}, &fakeAuditor{})

		require.ErrorIs(t, svc.Delete(ctx, "admin-1", "ghost"), domain.ErrNotFound)
	})
}
