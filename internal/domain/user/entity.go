package user

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("name is required")
	ErrEmptyEmail      = errors.New("email is required")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidRole     = errors.New("invalid role")
	ErrGradeRequired   = errors.New("grade is required for students")
	ErrSchoolEmailOnly = errors.New("students must use a school email address")
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
)

func NewRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleStudent, RoleLibrarian:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

const defaultAvatarBase = "https://ui-avatars.com/api/?background=4F46E5&color=fff&size=128&name="

func DefaultAvatarURL(name string) string {
	return defaultAvatarBase + url.QueryEscape(name)
}

type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	name         string
	role         Role
	grade        string
	avatarURL    string
}

// NewUser applies the registration rules: students must carry a grade and a
// school email; librarians are exempt from both. schoolDomain comes from
// configuration ("escola.edu" by default).
func NewUser(email, passwordHash, name string, role Role, grade, avatarURL, schoolDomain string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, ErrEmptyName
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if role == "" {
		role = RoleStudent
	}
	if _, err := NewRole(string(role)); err != nil {
		return nil, err
	}
	if role == RoleStudent {
		if schoolDomain != "" && !strings.HasSuffix(email, "@"+schoolDomain) {
			return nil, ErrSchoolEmailOnly
		}
		if strings.TrimSpace(grade) == "" {
			return nil, ErrGradeRequired
		}
	}
	if avatarURL == "" {
		avatarURL = DefaultAvatarURL(name)
	}

	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		name:         name,
		role:         role,
		grade:        strings.TrimSpace(grade),
		avatarURL:    avatarURL,
	}, nil
}

func Reconstruct(id uuid.UUID, email, passwordHash, name string, role Role, grade, avatarURL string) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		name:         name,
		role:         role,
		grade:        grade,
		avatarURL:    avatarURL,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Name() string         { return u.name }
func (u *User) Role() Role           { return u.role }
func (u *User) Grade() string        { return u.grade }
func (u *User) AvatarURL() string    { return u.avatarURL }

func (u *User) IsLibrarian() bool {
	return u.role == RoleLibrarian
}
