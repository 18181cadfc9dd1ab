package entity

// ZonePreference captures how a user's timezone is resolved: an
// explicit manual override, or the live device zone reported by the
// client. Exactly one zone is effective at any instant.
type ZonePreference struct {
	Zone       string // IANA identifier, set when Manual
	Manual     bool
	DeviceZone string // last reported device zone
}

// EffectiveZone returns the zone actually in effect: the manual
// override when set, otherwise the device zone, otherwise UTC.
// Every call site that needs a zone goes through here.
func (p ZonePreference) EffectiveZone() string {
	if p.Manual && p.Zone != "" {
		return p.Zone
	}
	if p.DeviceZone != "" {
		return p.DeviceZone
	}
	return "UTC"
}
