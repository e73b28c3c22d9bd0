package tokenauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GolangJWTCodec is a SignedTokenCodec backed by golang-jwt. Tokens are
// interchangeable with JWXCodec.
type GolangJWTCodec struct {
	// Clock overrides the time used to check nbf/exp. Defaults to time.Now.
	Clock func() time.Time
}

// Encode signs the claim set as a compact JWS.
func (c GolangJWTCodec) Encode(set ClaimSet, secret string, alg Algorithm) (string, error) {
	if err := alg.check(); err != nil {
		return "", err
	}
	claims, err := toWire(set)
	if err != nil {
		return "", err
	}

	mapClaims := make(jwt.MapClaims, len(claims))
	for _, wc := range claims {
		if t, ok := wc.value.(time.Time); ok {
			mapClaims[wc.name] = t.Unix()
			continue
		}
		mapClaims[wc.name] = wc.value
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString([]byte(secret))
	if err != nil {
		return "", newError(ErrCodeInternal, fmt.Errorf("sign token: %w", err))
	}
	return signed, nil
}

// Decode verifies the token signature, then its validity window, and returns its claims.
func (c GolangJWTCodec) Decode(token, secret string, alg Algorithm) (ClaimSet, error) {
	if err := alg.check(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, newError(ErrCodeMalformed, errors.New("token is empty"))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classifyGolangJWTError(err)
	}
	if !parsed.Valid {
		return nil, newError(ErrCodeInvalidSignature, errors.New("token is not valid"))
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, newError(ErrCodeMalformed, fmt.Errorf("unexpected claims type %T", parsed.Claims))
	}
	return fromWire(claims), nil
}

func (c GolangJWTCodec) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func classifyGolangJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newError(ErrCodeMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return newError(ErrCodeInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(ErrCodeExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return newError(ErrCodeNotYetValid, err)
	}
	return newError(ErrCodeMalformed, err)
}
