package service

import (
	"fmt"
	"time"

	"reminder-service/internal/domain/entity"
)

// NextOccurrence returns the smallest UTC instant strictly after
// `after` at which the wall clock in `zone` reads `tod`. The zone's
// offset is resolved at the target local date, not at `after`, so a
// reminder scheduled across a DST boundary fires at the correct local
// time on the other side of it.
//
// DST policies:
//   - A local time that does not exist on a given day (spring-forward
//     gap) rolls to the next day's occurrence.
//   - A local time that occurs twice (fall-back) resolves to the
//     earlier of the two instants.
func NextOccurrence(tod entity.TimeOfDay, zone string, after time.Time) (time.Time, error) {
	if !tod.Valid() {
		return time.Time{}, fmt.Errorf("%w: %s", entity.ErrInvalidTimeOfDay, tod)
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", entity.ErrUnknownZone, zone)
	}

	local := after.In(loc)
	for day := 0; day <= 2; day++ {
		candidate := time.Date(local.Year(), local.Month(), local.Day()+day,
			tod.Hour, tod.Minute, 0, 0, loc)

		// The zone database normalizes a nonexistent local time to an
		// instant with a different clock reading. Treat that day as
		// having no occurrence.
		if candidate.Hour() != tod.Hour || candidate.Minute() != tod.Minute {
			continue
		}

		// Strictly future: an exact boundary hit rolls forward, so
		// repeated resolution always advances.
		if candidate.After(after) {
			return candidate.UTC(), nil
		}
	}

	// Unreachable for a valid time of day: within three calendar days
	// at most one occurrence is in the past and one is in a gap.
	return time.Time{}, fmt.Errorf("%w: no occurrence of %s in %q after %s",
		entity.ErrInvalidTimeOfDay, tod, zone, after.Format(time.RFC3339))
}
