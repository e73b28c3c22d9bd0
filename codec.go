package tokenauth

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Algorithm names a signing algorithm understood by a SignedTokenCodec.
type Algorithm string

// HS256 is HMAC with SHA-256, keyed with the UTF-8 bytes of the secret.
const HS256 Algorithm = "HS256"

// SignedTokenCodec turns claim sets into compact signed tokens and back.
//
// Decode must report failures as *Error with ErrCodeMalformed for tokens that
// cannot be parsed, ErrCodeInvalidSignature when the signature does not verify,
// and ErrCodeExpired / ErrCodeNotYetValid for tokens outside their validity window.
// The signature is checked before the time claims.
type SignedTokenCodec interface {
	Encode(claims ClaimSet, secret string, alg Algorithm) (string, error)
	Decode(token, secret string, alg Algorithm) (ClaimSet, error)
}

func (a Algorithm) check() error {
	if a != HS256 {
		return newError(ErrCodeInvalidConfig, fmt.Errorf("unsupported signing algorithm %q", a))
	}
	return nil
}

func errMissingClaim(name string) error {
	return fmt.Errorf("missing required claim %q", name)
}

type wireClaim struct {
	name  string
	value any
}

// toWire folds a claim set into JSON claim values: a repeated name becomes an
// array, nbf/exp become numeric dates and everything else stays a string.
// The first occurrence of a name fixes its position.
func toWire(set ClaimSet) ([]wireClaim, error) {
	order := make([]string, 0, len(set))
	grouped := make(map[string][]string, len(set))
	for _, c := range set {
		if _, seen := grouped[c.Name]; !seen {
			order = append(order, c.Name)
		}
		grouped[c.Name] = append(grouped[c.Name], c.Value)
	}

	out := make([]wireClaim, 0, len(order))
	for _, name := range order {
		values := grouped[name]
		switch {
		case name == ClaimNotBefore || name == ClaimExpiry:
			secs, err := strconv.ParseInt(values[0], 10, 64)
			if err != nil {
				return nil, newError(ErrCodeMalformed, fmt.Errorf("claim %q: %w", name, err))
			}
			out = append(out, wireClaim{name: name, value: time.Unix(secs, 0).UTC()})
		case len(values) == 1:
			out = append(out, wireClaim{name: name, value: values[0]})
		default:
			out = append(out, wireClaim{name: name, value: append([]string(nil), values...)})
		}
	}
	return out, nil
}

var decodedClaimOrder = []string{
	ClaimRole,
	ClaimName,
	ClaimGivenName,
	ClaimNameIdentifier,
	ClaimFamilyName,
	ClaimEmail,
	ClaimNotBefore,
	ClaimExpiry,
}

// fromWire expands decoded JSON claims back into a claim set, applying the
// inbound name mapping. Known claims come first in issuance order, unknown
// claims follow sorted by name.
func fromWire(values map[string]any) ClaimSet {
	expanded := make(map[string][]string, len(values))
	for name, raw := range values {
		if mapped, ok := inboundClaimTypes[name]; ok {
			name = mapped
		}
		expanded[name] = append(expanded[name], claimStrings(raw)...)
	}

	set := make(ClaimSet, 0, len(expanded))
	emit := func(name string) {
		for _, v := range expanded[name] {
			set = append(set, Claim{Name: name, Value: v})
		}
		delete(expanded, name)
	}
	for _, name := range decodedClaimOrder {
		emit(name)
	}
	rest := make([]string, 0, len(expanded))
	for name := range expanded {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		emit(name)
	}
	return set
}

func claimStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, claimStrings(item)...)
		}
		return out
	case time.Time:
		return []string{strconv.FormatInt(v.Unix(), 10)}
	case float64:
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case json.Number:
		return []string{v.String()}
	case int64:
		return []string{strconv.FormatInt(v, 10)}
	case int:
		return []string{strconv.Itoa(v)}
	case bool:
		return []string{strconv.FormatBool(v)}
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return []string{fmt.Sprint(v)}
		}
		return []string{string(b)}
	}
}
