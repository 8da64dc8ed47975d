package geography

import (
	"regexp"

	"github.com/shipstack/backend/internal/domain/shared"
)

// postalRegex validates the postal code shape: exactly six digits. Whether
// a well-formed code is serviceable is the index's call, not the regex's.
var postalRegex = regexp.MustCompile(`^[0-9]{6}$`)

// ValidatePostal checks the postal code shape. Malformed input is a
// validation error, never a fallback zone.
func ValidatePostal(postal string) error {
	if !postalRegex.MatchString(postal) {
		return shared.NewDomainError(shared.ErrValidation.Code, "postal code must be six digits: "+postal)
	}
	return nil
}

// Classifier maps an (origin, destination) postal pair to a shipping zone.
// It is a pure function over the loaded reference data; zone assignment is
// a business rule evaluated in a fixed priority order, not a distance
// computation.
type Classifier struct {
	provider *IndexProvider
}

// NewClassifier creates a classifier over the given index provider
func NewClassifier(provider *IndexProvider) *Classifier {
	return &Classifier{provider: provider}
}

// ClassifyRoute resolves both postal codes and applies the zone rules in
// priority order:
//  1. both ends inside a declared special region -> Special-Region
//  2. both ends flagged metro -> Metro
//  3. same state -> Tier-1
//  4. otherwise -> Rest-of-Country
//
// Rule order is the tie-break: a same-state metro pair is Metro, and a
// special-region pair is Special-Region regardless of distance.
func (c *Classifier) ClassifyRoute(originPostal, destPostal string) (ZoneCode, error) {
	if err := ValidatePostal(originPostal); err != nil {
		return "", err
	}
	if err := ValidatePostal(destPostal); err != nil {
		return "", err
	}

	index := c.provider.Current()

	origin, ok := index.Lookup(originPostal)
	if !ok {
		return "", NewUnserviceableRouteError(RouteSideOrigin, originPostal)
	}
	dest, ok := index.Lookup(destPostal)
	if !ok {
		return "", NewUnserviceableRouteError(RouteSideDestination, destPostal)
	}

	switch {
	case origin.IsSpecialRegion && dest.IsSpecialRegion:
		return ZoneSpecialRegion, nil
	case origin.IsMetro && dest.IsMetro:
		return ZoneMetro, nil
	case origin.State == dest.State:
		return ZoneTier1, nil
	default:
		return ZoneRestOfCountry, nil
	}
}

// SameState reports whether both postal codes resolve to the same state.
// Used by the tax split (intra-state vs inter-state).
func (c *Classifier) SameState(originPostal, destPostal string) (bool, error) {
	index := c.provider.Current()

	origin, ok := index.Lookup(originPostal)
	if !ok {
		return false, NewUnserviceableRouteError(RouteSideOrigin, originPostal)
	}
	dest, ok := index.Lookup(destPostal)
	if !ok {
		return false, NewUnserviceableRouteError(RouteSideDestination, destPostal)
	}
	return origin.State == dest.State, nil
}
