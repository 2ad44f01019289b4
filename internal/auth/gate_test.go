package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/hranilka/internal/model"
)

func defaultGate() *Gate {
	return NewGate(map[model.Role]Secret{
		model.RoleCashier: "25",
		model.RoleAdmin:   "2025",
		model.RoleCreator: "202505",
	})
}

func TestGateLoginRoles(t *testing.T) {
	gate := defaultGate()

	tests := []struct {
		password string
		want     model.Role
	}{
		{"25", model.RoleCashier},
		{"2025", model.RoleAdmin},
		{"202505", model.RoleCreator},
	}

	for _, tt := range tests {
		s, err := gate.Login("Анна", tt.password)
		require.NoError(t, err, "password %q", tt.password)
		assert.Equal(t, tt.want, s.Role)
		assert.Equal(t, "Анна", s.Name)
	}
}

func TestGateLoginRejects(t *testing.T) {
	gate := defaultGate()

	for _, pw := range []string{"0000", "2", "20250", "2025 ", "202505x"} {
		s, err := gate.Login("Анна", pw)
		assert.ErrorIs(t, err, ErrInvalidPassword, "password %q", pw)
		assert.Equal(t, Session{}, s)
	}
}

func TestGateLoginEmptyFields(t *testing.T) {
	gate := defaultGate()

	_, err := gate.Login("", "2025")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = gate.Login("   ", "2025")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = gate.Login("Анна", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	// Name is checked first.
	_, err = gate.Login("", "")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestSecretBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("2025"), bcrypt.MinCost)
	require.NoError(t, err)

	gate := NewGate(map[model.Role]Secret{model.RoleAdmin: Secret(hash)})

	s, err := gate.Login("Анна", "2025")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, s.Role)

	_, err = gate.Login("Анна", string(hash))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestEmptySecretNeverMatches(t *testing.T) {
	assert.False(t, Secret("").Matches(""))
	assert.False(t, Secret("").Matches("x"))
}

func TestLock(t *testing.T) {
	lock := NewLock("202505")
	assert.True(t, lock.Unlock("202505"))
	assert.False(t, lock.Unlock("2025"))
	assert.False(t, lock.Unlock(""))
}
