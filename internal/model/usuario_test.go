package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsuario(t *testing.T) {
	t.Run("with password", func(t *testing.T) {
		u, err := NewUsuario("ana", "secreta123", RolUser)
		require.NoError(t, err)

		assert.Equal(t, "ana", u.Nombre)
		assert.Equal(t, RolUser, u.Rol)
		assert.True(t, u.TienePassword())
		assert.NotContains(t, u.PasswordHash, "secreta123")
	})

	t.Run("without password starts pending", func(t *testing.T) {
		u, err := NewUsuario("bob", "", RolUser)
		require.NoError(t, err)

		assert.False(t, u.TienePassword())
		assert.False(t, u.VerificarPassword("anything"))
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := NewUsuario("eva", "pw", Rol("root"))
		assert.ErrorIs(t, err, ErrValidacion)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := NewUsuario("   ", "pw", RolUser)
		assert.ErrorIs(t, err, ErrValidacion)
	})
}

func TestUsuario_VerificarPassword(t *testing.T) {
	u, err := NewUsuario("ana", "secreta123", RolUser)
	require.NoError(t, err)

	assert.True(t, u.VerificarPassword("secreta123"))
	assert.False(t, u.VerificarPassword("otra"))
	assert.False(t, u.VerificarPassword(""))
}

func TestUsuario_EstablecerPassword(t *testing.T) {
	t.Run("only while pending", func(t *testing.T) {
		u, err := NewUsuario("bob", "", RolUser)
		require.NoError(t, err)

		require.NoError(t, u.EstablecerPassword("inicial"))
		assert.True(t, u.VerificarPassword("inicial"))
	})

	t.Run("conflict when already set", func(t *testing.T) {
		u, err := NewUsuario("bob", "inicial", RolUser)
		require.NoError(t, err)

		err = u.EstablecerPassword("otra")
		assert.ErrorIs(t, err, ErrPasswordYaEstablecido)
		assert.True(t, u.VerificarPassword("inicial"), "existing password must not be overwritten")
	})

	t.Run("empty password rejected", func(t *testing.T) {
		u, err := NewUsuario("bob", "", RolUser)
		require.NoError(t, err)

		assert.ErrorIs(t, u.EstablecerPassword("  "), ErrValidacion)
	})
}

func TestUsuario_CambiarPassword(t *testing.T) {
	u, err := NewUsuario("ana", "vieja", RolUser)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		assert.ErrorIs(t, u.CambiarPassword("incorrecta", "nueva"), ErrPasswordIncorrecto)
	})

	t.Run("new must differ from current", func(t *testing.T) {
		assert.ErrorIs(t, u.CambiarPassword("vieja", "vieja"), ErrValidacion)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, u.CambiarPassword("vieja", "nueva"))
		assert.True(t, u.VerificarPassword("nueva"))
		assert.False(t, u.VerificarPassword("vieja"))
	})
}

func TestUsuario_ResetearPassword(t *testing.T) {
	u, err := NewUsuario("ana", "secreta", RolUser)
	require.NoError(t, err)

	u.ResetearPassword()

	assert.False(t, u.TienePassword())
	assert.False(t, u.VerificarPassword("secreta"))
}

func TestUsuario_Publico(t *testing.T) {
	u, err := NewUsuario("ana", "secreta", RolAdmin)
	require.NoError(t, err)

	publico := u.Publico()
	assert.Equal(t, "ana", publico.Nombre)
	assert.Equal(t, RolAdmin, publico.Rol)
	assert.True(t, publico.TienePassword)

	// The public view must never leak the hash, not even serialized.
	data, err := json.Marshal(publico)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password_hash")
}
