package user

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

const maxNameLength = 100

// User is a local mirror of a Clerk account plus marketplace attributes.
type User struct {
	id          string
	clerkUserID string
	email       *vo.Email
	firstName   string
	lastName    string
	avatarURL   string
	timezone    string
	role        authorization.UserRole
	deletedAt   *time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewUser creates a mentee account for a freshly registered Clerk user.
func NewUser(clerkUserID string, email *vo.Email, firstName, lastName string) (*User, error) {
	if strings.TrimSpace(clerkUserID) == "" {
		return nil, fmt.Errorf("clerk user ID is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if err := validateName(firstName, lastName); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &User{
		id:          id.New(),
		clerkUserID: clerkUserID,
		email:       email,
		firstName:   strings.TrimSpace(firstName),
		lastName:    strings.TrimSpace(lastName),
		timezone:    biztime.DefaultTimezone,
		role:        authorization.RoleMentee,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(
	userID string,
	clerkUserID string,
	email *vo.Email,
	firstName, lastName string,
	avatarURL string,
	timezone string,
	role authorization.UserRole,
	deletedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	if timezone == "" {
		timezone = biztime.DefaultTimezone
	}

	return &User{
		id:          userID,
		clerkUserID: clerkUserID,
		email:       email,
		firstName:   firstName,
		lastName:    lastName,
		avatarURL:   avatarURL,
		timezone:    timezone,
		role:        role,
		deletedAt:   deletedAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (u *User) ID() string                   { return u.id }
func (u *User) ClerkUserID() string          { return u.clerkUserID }
func (u *User) Email() *vo.Email             { return u.email }
func (u *User) FirstName() string            { return u.firstName }
func (u *User) LastName() string             { return u.lastName }
func (u *User) AvatarURL() string            { return u.avatarURL }
func (u *User) Timezone() string             { return u.timezone }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) DeletedAt() *time.Time        { return u.deletedAt }
func (u *User) Version() int                 { return u.version }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

func (u *User) FullName() string {
	return strings.TrimSpace(u.firstName + " " + u.lastName)
}

// DisplayName falls back to the email local part when no name is set.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.email.String(), "@")
	return local
}

func (u *User) IsDeleted() bool { return u.deletedAt != nil }
func (u *User) IsCoach() bool   { return u.role.IsCoach() }
func (u *User) IsAdmin() bool   { return u.role.IsAdmin() }

// UpdateProfile changes the self-service fields. Nil arguments are left untouched.
func (u *User) UpdateProfile(firstName, lastName, timezone, avatarURL *string) error {
	newFirst, newLast := u.firstName, u.lastName
	if firstName != nil {
		newFirst = strings.TrimSpace(*firstName)
	}
	if lastName != nil {
		newLast = strings.TrimSpace(*lastName)
	}
	if err := validateName(newFirst, newLast); err != nil {
		return err
	}
	if timezone != nil {
		if !biztime.ValidTimezone(*timezone) {
			return fmt.Errorf("invalid timezone: %s", *timezone)
		}
		u.timezone = *timezone
	}
	if avatarURL != nil {
		u.avatarURL = strings.TrimSpace(*avatarURL)
	}

	u.firstName, u.lastName = newFirst, newLast
	u.touch()
	return nil
}

// SyncFromClerk applies identity data pushed by a Clerk webhook.
func (u *User) SyncFromClerk(email *vo.Email, firstName, lastName, avatarURL string) error {
	if email == nil {
		return fmt.Errorf("email is required")
	}
	if err := validateName(firstName, lastName); err != nil {
		return err
	}

	u.email = email
	u.firstName = strings.TrimSpace(firstName)
	u.lastName = strings.TrimSpace(lastName)
	u.avatarURL = avatarURL
	u.deletedAt = nil
	u.touch()
	return nil
}

func (u *User) ChangeRole(role authorization.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	if u.IsDeleted() {
		return fmt.Errorf("cannot change role of a deleted user")
	}
	if u.role == role {
		return nil
	}
	u.role = role
	u.touch()
	return nil
}

// SoftDelete marks the account deleted. Calling it twice is a no-op.
func (u *User) SoftDelete() {
	if u.deletedAt != nil {
		return
	}
	now := biztime.NowUTC()
	u.deletedAt = &now
	u.touch()
}

func (u *User) touch() {
	u.updatedAt = biztime.NowUTC()
	u.version++
}

func validateName(firstName, lastName string) error {
	if len(strings.TrimSpace(firstName)) > maxNameLength {
		return fmt.Errorf("first name exceeds maximum length of %d characters", maxNameLength)
	}
	if len(strings.TrimSpace(lastName)) > maxNameLength {
		return fmt.Errorf("last name exceeds maximum length of %d characters", maxNameLength)
	}
	return nil
}
