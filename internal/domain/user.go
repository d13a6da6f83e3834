package domain

import (
	"context"
	"time"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Name         string    `json:"name"`
	CPF          string    `json:"cpf"`
	RG           string    `json:"rg"`
	Phone        string    `json:"phone"`
	Position     string    `json:"position"`
	CompanyName  string    `json:"company_name"`
	CNPJ         string    `json:"cnpj"`
	Segment      string    `json:"segment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role is an application role (e.g. admin, organizer, attendee).
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// Role codes.
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleAttendee  = "attendee"
)

// Named permission strings checked by mutating routes.
const (
	PermEventsWrite        = "events:write"
	PermEnrollmentsWrite   = "enrollments:write"
	PermEnrollmentsCheckin = "enrollments:checkin"
	PermSpeakersWrite      = "speakers:write"
	PermSponsorsWrite      = "sponsors:write"
	PermSupportersWrite    = "supporters:write"
	PermUsersAdmin         = "users:admin"
	PermStatsRead          = "stats:read"
	PermBadgesPrint        = "badges:print"
)

var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermEventsWrite, PermEnrollmentsWrite, PermEnrollmentsCheckin,
		PermSpeakersWrite, PermSponsorsWrite, PermSupportersWrite,
		PermUsersAdmin, PermStatsRead, PermBadgesPrint,
	},
	RoleOrganizer: {
		PermEnrollmentsWrite, PermEnrollmentsCheckin, PermStatsRead,
		PermBadgesPrint,
	},
	RoleAttendee: {},
}

// PermissionsForRoles flattens role codes into a deduplicated permission list.
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, role := range roles {
		for _, p := range rolePermissions[role] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, permissions []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and
// permission claims.
type TokenVerifier interface {
	Verify(token string) (userID string, permissions []string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	AssignRole(ctx context.Context, userID, roleID string) error
	Delete(ctx context.Context, id string) error
}

// RoleRepository defines the interface for role storage.
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// UserService defines authentication and user administration.
type UserService interface {
	// Login verifies credentials and issues a token carrying the user's
	// permission strings.
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	Register(ctx context.Context, email, password, name string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GrantRole(ctx context.Context, actorID, userID, roleCode string) error
	// Delete fails with ErrUserHasRecords while the user has enrollments or
	// a speaker profile.
	Delete(ctx context.Context, actorID, userID string) error
}
