package tokenauth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	defaultExpirationMinutes = 60

	// EnvSecret and EnvExpirationMinutes name the environment variables read by PolicyFromEnv.
	EnvSecret            = "TOKEN_SECRET"
	EnvExpirationMinutes = "TOKEN_EXPIRATION_MINUTES"
)

// TokenPolicy holds the signing secret and token lifetime of an Authority.
type TokenPolicy struct {
	Secret            string
	ExpirationMinutes int
}

// Lifetime returns the validity window of issued tokens.
func (p TokenPolicy) Lifetime() time.Duration {
	return time.Duration(p.ExpirationMinutes) * time.Minute
}

// validate ensures the policy is usable.
func (p TokenPolicy) validate() error {
	switch {
	case p.Secret == "":
		return errors.New("secret is required")
	case p.ExpirationMinutes <= 0:
		return fmt.Errorf("expiration minutes must be positive, got %d", p.ExpirationMinutes)
	}
	return nil
}

// PolicyFromEnv builds a policy from environment variables looked up through lookup
// (usually os.LookupEnv). The lifetime defaults to 60 minutes.
func PolicyFromEnv(lookup func(string) (string, bool)) (TokenPolicy, error) {
	policy := TokenPolicy{ExpirationMinutes: defaultExpirationMinutes}

	if v, ok := lookup(EnvSecret); ok {
		policy.Secret = v
	}
	if v, ok := lookup(EnvExpirationMinutes); ok && strings.TrimSpace(v) != "" {
		minutes, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return TokenPolicy{}, newError(ErrCodeInvalidConfig, fmt.Errorf("%s: %w", EnvExpirationMinutes, err))
		}
		policy.ExpirationMinutes = minutes
	}
	if err := policy.validate(); err != nil {
		return TokenPolicy{}, newError(ErrCodeInvalidConfig, err)
	}
	return policy, nil
}
