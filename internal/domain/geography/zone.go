package geography

// ZoneCode is a discrete geographic pricing tier assigned to a route,
// not to a single location.
type ZoneCode string

const (
	// ZoneMetro covers routes between two metro postal areas
	ZoneMetro ZoneCode = "A"
	// ZoneTier1 covers intra-state routes outside the metro pairing
	ZoneTier1 ZoneCode = "B"
	// ZoneTier2 is a reference-data classification used by zone rules;
	// the route classifier itself never emits it
	ZoneTier2 ZoneCode = "C"
	// ZoneRestOfCountry covers everything not matched by a prior rule
	ZoneRestOfCountry ZoneCode = "D"
	// ZoneSpecialRegion covers routes where both ends sit in a declared
	// special region (island or remote territories)
	ZoneSpecialRegion ZoneCode = "E"
)

// IsValid reports whether the zone code is one of the known tiers
func (z ZoneCode) IsValid() bool {
	switch z {
	case ZoneMetro, ZoneTier1, ZoneTier2, ZoneRestOfCountry, ZoneSpecialRegion:
		return true
	}
	return false
}

// Name returns the human-readable tier name
func (z ZoneCode) Name() string {
	switch z {
	case ZoneMetro:
		return "Metro"
	case ZoneTier1:
		return "Tier-1"
	case ZoneTier2:
		return "Tier-2"
	case ZoneRestOfCountry:
		return "Rest-of-Country"
	case ZoneSpecialRegion:
		return "Special-Region"
	default:
		return "Unknown"
	}
}
