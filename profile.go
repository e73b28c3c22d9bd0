package tokenauth

import (
	"strconv"
	"time"
)

// Placeholders written in place of absent profile fields.
const (
	NoUsername     = "No name found"
	NoFirstName    = "No first name given"
	NoLastName     = "No last name found"
	NoUserID       = "No user id found"
	NoProfilePhoto = "No profile photo found"
	NoEmail        = "No email found"
)

// UserProfile describes the user a token is issued for.
// A nil field is absent; an empty string is a present value.
type UserProfile struct {
	ID           *string
	Username     *string
	FirstName    *string
	LastName     *string
	Email        *string
	ProfilePhoto *string
	Roles        []string
}

// String returns a pointer to s, for filling UserProfile fields.
func String(s string) *string {
	return &s
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

// BuildClaimSet turns profile into the claim set carried by an issued token.
// A nil profile is treated as a profile with every field absent; the profile is
// never modified.
//
// Claims are emitted in a fixed order: one role claim per role, then name,
// given name (first and last name joined by a space), subject id, family name,
// email, not-before and expiry. The family name slot carries the profile photo
// value; existing token consumers read it from there.
func BuildClaimSet(profile *UserProfile, policy TokenPolicy, now time.Time) ClaimSet {
	if profile == nil {
		profile = &UserProfile{}
	}

	notBefore := now.Unix()
	expiry := notBefore + int64(policy.ExpirationMinutes)*60

	set := make(ClaimSet, 0, len(profile.Roles)+7)
	for _, role := range profile.Roles {
		set = append(set, Claim{Name: ClaimRole, Value: role})
	}
	set = append(set,
		Claim{Name: ClaimName, Value: valueOr(profile.Username, NoUsername)},
		Claim{Name: ClaimGivenName, Value: valueOr(profile.FirstName, NoFirstName) + " " + valueOr(profile.LastName, NoLastName)},
		Claim{Name: ClaimNameID, Value: valueOr(profile.ID, NoUserID)},
		Claim{Name: ClaimFamilyName, Value: valueOr(profile.ProfilePhoto, NoProfilePhoto)},
		Claim{Name: ClaimEmail, Value: valueOr(profile.Email, NoEmail)},
		Claim{Name: ClaimNotBefore, Value: strconv.FormatInt(notBefore, 10)},
		Claim{Name: ClaimExpiry, Value: strconv.FormatInt(expiry, 10)},
	)
	return set
}
