package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"visitorlog/internal/nonce"
)

var (
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
	ErrRevokedToken     = errors.New("token has been revoked")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

// SessionClaim is the payload of the admin session cookie. The token id
// is registered in the nonce store at issue time; the session stays
// valid only while that id exists there, which lets logout kill the
// session server-side.
type SessionClaim struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// NewSessionClaim builds a claim for an authenticated admin. ttl is the
// session lifetime in minutes.
func NewSessionClaim(ctx context.Context, username string, ttl uint) (SessionClaim, error) {
	jti := uuid.NewString()
	expiry := time.Now().UTC().Add(time.Duration(ttl) * time.Minute)

	// Nonce outlives the token slightly to allow for clock skew.
	if err := nonce.Store.Put(ctx, jti, time.Duration(ttl)*time.Minute+10*time.Second); err != nil {
		return SessionClaim{}, err
	}

	return SessionClaim{
		Username: username,
		Admin:    true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}, nil
}

// GenerateJWT signs the claims with the process secret.
func GenerateJWT(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	return token.SignedString([]byte(secret))
}

// DecodeSessionJWT verifies the token signature and expiry, then checks
// that its id is still live in the nonce store.
func DecodeSessionJWT(ctx context.Context, tokenString, secret string) (*SessionClaim, error) {
	claims, err := decodeJWT(tokenString, &SessionClaim{}, secret)
	if err != nil {
		return nil, err
	}

	if !nonce.Store.Exists(ctx, claims.ID) {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// RevokeSession consumes the token id so the session cannot be used
// again, regardless of the cookie's fate.
func RevokeSession(ctx context.Context, claims *SessionClaim) {
	nonce.Store.Consume(ctx, claims.ID)
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T, secret string) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
