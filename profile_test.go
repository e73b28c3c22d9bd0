package tokenauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClaimSet_OrderAndValues(t *testing.T) {
	now := time.Unix(1_700_000_000, 999_000_000)
	profile := &UserProfile{
		ID:           String("609caf1721398f1d23111b0f"),
		Username:     String("jdoe"),
		FirstName:    String("Jane"),
		LastName:     String("Doe"),
		Email:        String("jane@example.com"),
		ProfilePhoto: String("https://cdn.example.com/jane.png"),
		Roles:        []string{"User", "Service"},
	}

	set := BuildClaimSet(profile, TokenPolicy{Secret: "s", ExpirationMinutes: 30}, now)

	want := ClaimSet{
		{Name: ClaimRole, Value: "User"},
		{Name: ClaimRole, Value: "Service"},
		{Name: ClaimName, Value: "jdoe"},
		{Name: ClaimGivenName, Value: "Jane Doe"},
		{Name: ClaimNameID, Value: "609caf1721398f1d23111b0f"},
		{Name: ClaimFamilyName, Value: "https://cdn.example.com/jane.png"},
		{Name: ClaimEmail, Value: "jane@example.com"},
		{Name: ClaimNotBefore, Value: "1700000000"},
		{Name: ClaimExpiry, Value: "1700001800"},
	}
	assert.Equal(t, want, set)
}

func TestBuildClaimSet_Placeholders(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	policy := TokenPolicy{Secret: "s", ExpirationMinutes: 60}

	fromNil := BuildClaimSet(nil, policy, now)
	fromEmpty := BuildClaimSet(&UserProfile{}, policy, now)
	require.Equal(t, fromNil, fromEmpty)

	assert.Empty(t, fromNil.Values(ClaimRole))
	name, _ := fromNil.First(ClaimName)
	assert.Equal(t, NoUsername, name)
	given, _ := fromNil.First(ClaimGivenName)
	assert.Equal(t, NoFirstName+" "+NoLastName, given)
	id, _ := fromNil.First(ClaimNameID)
	assert.Equal(t, NoUserID, id)
	family, _ := fromNil.First(ClaimFamilyName)
	assert.Equal(t, NoProfilePhoto, family)
	email, _ := fromNil.First(ClaimEmail)
	assert.Equal(t, NoEmail, email)
	exp, _ := fromNil.First(ClaimExpiry)
	assert.Equal(t, "1700003600", exp)
}

func TestBuildClaimSet_PartialProfile(t *testing.T) {
	profile := &UserProfile{FirstName: String("Jane"), Email: String("")}

	set := BuildClaimSet(profile, TokenPolicy{Secret: "s", ExpirationMinutes: 1}, time.Now())

	given, _ := set.First(ClaimGivenName)
	assert.Equal(t, "Jane "+NoLastName, given)
	email, ok := set.First(ClaimEmail)
	assert.True(t, ok)
	assert.Equal(t, "", email, "present empty email is kept")
}

func TestBuildClaimSet_DoesNotMutateProfile(t *testing.T) {
	profile := &UserProfile{}

	_ = BuildClaimSet(profile, TokenPolicy{Secret: "s", ExpirationMinutes: 1}, time.Now())

	assert.Equal(t, &UserProfile{}, profile)
}
