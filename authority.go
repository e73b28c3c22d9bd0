package tokenauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

// Authority issues signed tokens for user profiles and answers authorization
// queries about bearer tokens it issued. Its policy is fixed at construction,
// so an Authority is safe for concurrent use.
type Authority struct {
	policy TokenPolicy
	alg    Algorithm
	codec  SignedTokenCodec
	clock  func() time.Time
	log    logrus.FieldLogger
}

// Option customizes an Authority.
type Option func(*Authority)

// WithCodec replaces the default JWXCodec.
func WithCodec(codec SignedTokenCodec) Option {
	return func(a *Authority) {
		a.codec = codec
	}
}

// WithClock overrides the issuance clock. It does not change the clock the
// codec validates against; codecs take their own.
func WithClock(clock func() time.Time) Option {
	return func(a *Authority) {
		a.clock = clock
	}
}

// WithLogger sets the logger used for issuance and validation events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Authority) {
		a.log = log
	}
}

// NewAuthority builds an Authority for the given policy.
func NewAuthority(policy TokenPolicy, opts ...Option) (*Authority, error) {
	if err := policy.validate(); err != nil {
		return nil, newError(ErrCodeInvalidConfig, err)
	}
	a := &Authority{
		policy: policy,
		alg:    HS256,
		codec:  JWXCodec{},
		clock:  time.Now,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.codec == nil {
		return nil, newError(ErrCodeInvalidConfig, errors.New("codec is required"))
	}
	return a, nil
}

// New builds an Authority from a secret and a token lifetime in minutes.
func New(secret string, expirationMinutes int, opts ...Option) (*Authority, error) {
	return NewAuthority(TokenPolicy{Secret: secret, ExpirationMinutes: expirationMinutes}, opts...)
}

// Policy returns the policy the Authority was built with.
func (a *Authority) Policy() TokenPolicy {
	return a.policy
}

// Issue returns a signed token for profile. A nil profile yields a token whose
// claims carry the placeholder value of every field.
func (a *Authority) Issue(profile *UserProfile) (string, error) {
	token, _, err := a.issue(profile)
	return token, err
}

func (a *Authority) issue(profile *UserProfile) (string, ClaimSet, error) {
	set := BuildClaimSet(profile, a.policy, a.clock())
	token, err := a.codec.Encode(set, a.policy.Secret, a.alg)
	if err != nil {
		a.log.WithField("code", CodeOf(err)).Debug("token issuance failed")
		return "", nil, err
	}
	subject, _ := set.First(ClaimNameID)
	a.log.WithFields(logrus.Fields{
		"subject": subject,
		"roles":   set.Values(ClaimRole),
	}).Debug("token issued")
	return token, set, nil
}

// ExtractBearer strips the "Bearer " prefix from an authorization header value.
func ExtractBearer(header string) (string, error) {
	if len(header) < len(bearerPrefix) {
		return "", newError(ErrCodeMalformedHeader, fmt.Errorf("header shorter than %d characters", len(bearerPrefix)))
	}
	if header[:len(bearerPrefix)] != bearerPrefix {
		return "", newError(ErrCodeMalformedHeader, errors.New(`header does not start with "Bearer "`))
	}
	return header[len(bearerPrefix):], nil
}

// Validate decodes the bearer token in header and returns its claims.
func (a *Authority) Validate(header string) (*Claims, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		return nil, a.rejected(err)
	}
	set, err := a.codec.Decode(token, a.policy.Secret, a.alg)
	if err != nil {
		return nil, a.rejected(err)
	}
	return claimsFromSet(set), nil
}

// IsLeastPrivileged reports whether the token in header carries no privileged role.
func (a *Authority) IsLeastPrivileged(header string) (bool, error) {
	claims, err := a.Validate(header)
	if err != nil {
		return false, err
	}
	return claims.LeastPrivileged(), nil
}

// UserID returns the subject id carried by the token in header. A token
// without a subject id claim is malformed.
func (a *Authority) UserID(header string) (string, error) {
	claims, err := a.Validate(header)
	if err != nil {
		return "", err
	}
	userID, ok := claims.Raw.First(ClaimNameIdentifier)
	if !ok {
		return "", a.rejected(newError(ErrCodeMalformed, errMissingClaim(ClaimNameIdentifier)))
	}
	return userID, nil
}

func (a *Authority) rejected(err error) error {
	a.log.WithField("code", CodeOf(err)).Debug("token rejected")
	return err
}
