package tokenauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// JWXCodec is the default SignedTokenCodec, backed by lestrrat-go/jwx.
type JWXCodec struct {
	// Clock overrides the time used to check nbf/exp. Defaults to time.Now.
	Clock func() time.Time
}

// Encode signs the claim set as a compact JWS.
func (c JWXCodec) Encode(set ClaimSet, secret string, alg Algorithm) (string, error) {
	if err := alg.check(); err != nil {
		return "", err
	}
	claims, err := toWire(set)
	if err != nil {
		return "", err
	}

	tok := jwt.New()
	for _, wc := range claims {
		if err := tok.Set(wc.name, wc.value); err != nil {
			return "", newError(ErrCodeMalformed, fmt.Errorf("set claim %q: %w", wc.name, err))
		}
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(secret)))
	if err != nil {
		return "", newError(ErrCodeInternal, fmt.Errorf("sign token: %w", err))
	}
	return string(signed), nil
}

// Decode verifies the token signature, then its validity window, and returns its claims.
func (c JWXCodec) Decode(token, secret string, alg Algorithm) (ClaimSet, error) {
	if err := alg.check(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, newError(ErrCodeMalformed, errors.New("token is empty"))
	}
	raw := []byte(token)
	key := []byte(secret)

	if _, err := jws.Parse(raw); err != nil {
		return nil, newError(ErrCodeMalformed, err)
	}
	if _, err := jws.Verify(raw, jws.WithKey(jwa.HS256, key)); err != nil {
		return nil, newError(ErrCodeInvalidSignature, err)
	}

	parsed, err := jwt.Parse(raw, jwt.WithKey(jwa.HS256, key), jwt.WithValidate(false))
	if err != nil {
		return nil, newError(ErrCodeMalformed, err)
	}
	if err := jwt.Validate(parsed, jwt.WithClock(jwt.ClockFunc(c.now))); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired()):
			return nil, newError(ErrCodeExpired, err)
		case errors.Is(err, jwt.ErrTokenNotYetValid()):
			return nil, newError(ErrCodeNotYetValid, err)
		default:
			if mapped := classifyJWXValidationError(err); mapped != nil {
				return nil, mapped
			}
			return nil, newError(ErrCodeMalformed, err)
		}
	}

	values, err := parsed.AsMap(context.Background())
	if err != nil {
		return nil, newError(ErrCodeMalformed, err)
	}
	return fromWire(values), nil
}

func (c JWXCodec) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func classifyJWXValidationError(err error) error {
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "token expired") || strings.Contains(lower, `"exp" not satisfied`):
		return newError(ErrCodeExpired, err)
	case strings.Contains(lower, `"nbf" not satisfied`):
		return newError(ErrCodeNotYetValid, err)
	}
	return nil
}
