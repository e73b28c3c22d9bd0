package tokenauth

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSource returns an oauth2.TokenSource that issues bearer tokens for
// profile and reuses each one until it is about to expire. The profile is
// copied, so later changes by the caller do not leak into issued tokens.
func (a *Authority) TokenSource(profile *UserProfile) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &issuingTokenSource{
		authority: a,
		profile:   cloneProfile(profile),
	})
}

// Client returns an HTTP client that attaches a bearer token for profile to
// every outgoing request.
func (a *Authority) Client(ctx context.Context, profile *UserProfile) *http.Client {
	return oauth2.NewClient(ctx, a.TokenSource(profile))
}

type issuingTokenSource struct {
	authority *Authority
	profile   *UserProfile
}

func (s *issuingTokenSource) Token() (*oauth2.Token, error) {
	token, set, err := s.authority.issue(s.profile)
	if err != nil {
		return nil, err
	}
	expiry := epochClaim(set, ClaimExpiry)
	if expiry.IsZero() {
		return nil, newError(ErrCodeInternal, errors.New("issued token has no expiry"))
	}
	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

func cloneProfile(in *UserProfile) *UserProfile {
	if in == nil {
		return nil
	}
	out := &UserProfile{
		ID:           cloneString(in.ID),
		Username:     cloneString(in.Username),
		FirstName:    cloneString(in.FirstName),
		LastName:     cloneString(in.LastName),
		Email:        cloneString(in.Email),
		ProfilePhoto: cloneString(in.ProfilePhoto),
	}
	if len(in.Roles) > 0 {
		out.Roles = append([]string(nil), in.Roles...)
	}
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	return String(*v)
}
