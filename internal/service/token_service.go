package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sistema-tareas/internal/model"
)

// TokenService issues and verifies RS256 signed JWTs. Access tokens carry
// the user's role for authorization decisions; refresh tokens only identify
// the subject and can do nothing but obtain a new pair.
type TokenService struct {
	keys       *KeyManager
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	parser     *jwt.Parser
}

// jwtClaims is the wire shape of our tokens on top of the registered set.
type jwtClaims struct {
	Role string `json:"role,omitempty"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func NewTokenService(keys *KeyManager, issuer string, audience string, accessTTL time.Duration, refreshTTL time.Duration) *TokenService {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	return &TokenService{
		keys:       keys,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		parser:     parser,
	}
}

// IssueAccess signs a short-lived access token for the user.
func (s *TokenService) IssueAccess(usuario model.Usuario) (string, error) {
	return s.sign(jwtClaims{
		Role:             string(usuario.Rol),
		Type:             model.TokenTypeAccess,
		RegisteredClaims: s.registeredClaims(usuario.Nombre, s.accessTTL),
	})
}

// IssueRefresh signs a long-lived refresh token. It deliberately omits the
// role claim: a refresh token can only be exchanged for a new pair, and the
// role is re-read from the live user at that moment.
func (s *TokenService) IssueRefresh(usuario model.Usuario) (string, error) {
	return s.sign(jwtClaims{
		Type:             model.TokenTypeRefresh,
		RegisteredClaims: s.registeredClaims(usuario.Nombre, s.refreshTTL),
	})
}

// Pair issues the access/refresh pair returned by login and refresh.
func (s *TokenService) Pair(usuario model.Usuario) (model.TokenPair, error) {
	access, err := s.IssueAccess(usuario)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := s.IssueRefresh(usuario)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		Usuario:      usuario.Publico(),
	}, nil
}

// Verify parses and validates a token and checks it is of the expected type.
// Failures map onto the model token sentinels so callers and logs can tell
// an expired token from a forged or mistyped one.
func (s *TokenService) Verify(tokenString string, expectedType string) (model.TokenClaims, error) {
	var claims jwtClaims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.keys.Public(), nil
	})
	if err != nil {
		return model.TokenClaims{}, clasificarErrorToken(err)
	}

	if claims.Subject == "" || claims.ID == "" || claims.IssuedAt == nil || claims.Type == "" {
		return model.TokenClaims{}, model.ErrTokenClaimFaltante
	}
	if claims.Type != expectedType {
		return model.TokenClaims{}, fmt.Errorf("%w: se esperaba %q", model.ErrTokenTipoIncorrecto, expectedType)
	}

	return model.TokenClaims{
		Nombre:  claims.Subject,
		Rol:     model.Rol(claims.Role),
		Tipo:    claims.Type,
		TokenID: claims.ID,
		Emitido: claims.IssuedAt.Time,
		Expira:  claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenService) sign(claims jwtClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signed, err := token.SignedString(s.keys.Private())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (s *TokenService) registeredClaims(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now().UTC()

	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
}

func clasificarErrorToken(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.ErrTokenExpirado
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return model.ErrTokenEmisorInvalido
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return model.ErrTokenClaimFaltante
	default:
		// Covers bad signatures, tampered payloads and strings that are not
		// JWTs at all.
		return model.ErrTokenFirmaInvalida
	}
}
