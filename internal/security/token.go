package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller decoded from a bearer token.
// UserID is the user's public UUID, not the internal row id.
type Identity struct {
	Email  string
	Role   string
	UserID string
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// Tokens are self-contained: verification never touches the database.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

// Issue creates a token for the identity using the default TTL.
func (t *TokenService) Issue(id Identity) (string, error) {
	return t.IssueWithTTL(id, t.expiresIn)
}

// IssueWithTTL creates a token with an explicit TTL. Tests use this to
// simulate already-expired tokens.
func (t *TokenService) IssueWithTTL(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  id.Email,
		"role": id.Role,
		"id":   id.UserID,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify validates signature and expiry and returns the embedded identity.
// Any failure, including a structurally valid token missing one of
// sub/role/id, yields a nil identity; callers treat that as unauthenticated.
func (t *TokenService) Verify(tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}

	email, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	userID, _ := claims["id"].(string)
	if email == "" || role == "" || userID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &Identity{Email: email, Role: role, UserID: userID}, nil
}
