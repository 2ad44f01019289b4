package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/hranilka/internal/model"
)

// Login errors, checked in this order.
var (
	ErrNameRequired     = errors.New("name required")
	ErrPasswordRequired = errors.New("password required")
	ErrInvalidPassword  = errors.New("invalid password")
)

// Session is the role and display name of the logged-in operator.
type Session struct {
	Role model.Role
	Name string
}

// Secret is a shared password. A value in bcrypt format is compared as a
// hash, anything else as plain text.
type Secret string

// Matches reports whether password equals the secret.
func (s Secret) Matches(password string) bool {
	if s == "" {
		return false
	}
	if s.isBcrypt() {
		return bcrypt.CompareHashAndPassword([]byte(s), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s), []byte(password)) == 1
}

func (s Secret) isBcrypt() bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(string(s), prefix) {
			return true
		}
	}
	return false
}

// Gate resolves a shared role password into a Session.
type Gate struct {
	secrets map[model.Role]Secret
}

// NewGate creates a gate from the per-role passwords.
func NewGate(secrets map[model.Role]Secret) *Gate {
	g := &Gate{secrets: make(map[model.Role]Secret, len(secrets))}
	for role, secret := range secrets {
		g.secrets[role] = secret
	}
	return g
}

// Login resolves name and password into a session.
func (g *Gate) Login(name, password string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, ErrNameRequired
	}
	if password == "" {
		return Session{}, ErrPasswordRequired
	}

	for _, role := range model.Roles {
		if g.secrets[role].Matches(password) {
			return Session{Role: role, Name: name}, nil
		}
	}
	return Session{}, ErrInvalidPassword
}

// Lock guards the archive with its own password, unrelated to roles.
type Lock struct {
	secret Secret
}

// NewLock creates an archive lock.
func NewLock(secret Secret) *Lock {
	return &Lock{secret: secret}
}

// Unlock reports whether password opens the lock.
func (l *Lock) Unlock(password string) bool {
	return l.secret.Matches(password)
}
