package model

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Rol string

const (
	RolUser  Rol = "user"
	RolAdmin Rol = "admin"
)

const bcryptCost = 12

// Usuario is a system account. PasswordHash empty means the account is
// pending: it exists but cannot authenticate until a password is set.
type Usuario struct {
	Nombre       string `json:"nombre"`
	Rol          Rol    `json:"rol"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// UsuarioPublico is the view handed to front-ends. The hash never leaves
// the core.
type UsuarioPublico struct {
	Nombre        string `json:"nombre"`
	Rol           Rol    `json:"rol"`
	TienePassword bool   `json:"tiene_password"`
}

// NewUsuario creates an account. An empty password leaves it pending.
func NewUsuario(nombre string, password string, rol Rol) (Usuario, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return Usuario{}, fmt.Errorf("%w: el nombre del usuario no puede estar vacío", ErrValidacion)
	}
	if rol != RolUser && rol != RolAdmin {
		return Usuario{}, fmt.Errorf("%w: el rol debe ser 'user' o 'admin'", ErrValidacion)
	}

	u := Usuario{Nombre: nombre, Rol: rol}
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return Usuario{}, err
		}
		u.PasswordHash = hash
	}

	return u, nil
}

// VerificarPassword reports whether the candidate matches the stored hash.
// A pending account always yields false, never an error.
func (u *Usuario) VerificarPassword(candidate string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// EstablecerPassword sets the first password. Overwriting an existing one
// is a conflict; that path goes through CambiarPassword.
func (u *Usuario) EstablecerPassword(nueva string) error {
	if u.TienePassword() {
		return ErrPasswordYaEstablecido
	}
	if strings.TrimSpace(nueva) == "" {
		return fmt.Errorf("%w: la contraseña no puede estar vacía", ErrValidacion)
	}

	hash, err := hashPassword(nueva)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	return nil
}

// CambiarPassword replaces the password after checking the current one.
func (u *Usuario) CambiarPassword(actual string, nueva string) error {
	if !u.VerificarPassword(actual) {
		return ErrPasswordIncorrecto
	}
	if strings.TrimSpace(nueva) == "" {
		return fmt.Errorf("%w: la contraseña no puede estar vacía", ErrValidacion)
	}
	if nueva == actual {
		return fmt.Errorf("%w: la nueva contraseña debe ser diferente", ErrValidacion)
	}

	hash, err := hashPassword(nueva)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	return nil
}

// ResetearPassword clears the hash, returning the account to pending.
// Role checks happen in the orchestrator; this only mutates state.
func (u *Usuario) ResetearPassword() {
	u.PasswordHash = ""
}

func (u *Usuario) TienePassword() bool {
	return u.PasswordHash != ""
}

func (u *Usuario) EsAdmin() bool {
	return u.Rol == RolAdmin
}

func (u *Usuario) Publico() UsuarioPublico {
	return UsuarioPublico{
		Nombre:        u.Nombre,
		Rol:           u.Rol,
		TienePassword: u.TienePassword(),
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
