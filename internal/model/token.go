package model

import "time"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the typed view of a verified token. Front-ends receive
// this, never the raw JWT claim map.
type TokenClaims struct {
	Nombre  string    `json:"sub"`
	Rol     Rol       `json:"role,omitempty"`
	Tipo    string    `json:"type"`
	TokenID string    `json:"jti"`
	Emitido time.Time `json:"iat"`
	Expira  time.Time `json:"exp"`
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	Usuario      UsuarioPublico `json:"usuario"`
}
