package alarm

import "time"

// RepeatCooldown is the minimum time between two FrequencyRepeat fires.
const RepeatCooldown = 5 * time.Minute

// Decision is the outcome of Decide for one alarm in one poll cycle.
type Decision struct {
	// Fire tells the caller to dispatch the alarm's action.
	Fire bool
	// Alarm is the state to persist when Fire is true; a copy of the input otherwise.
	Alarm *Alarm
}

// Decide evaluates the geofence and frequency mode of a at instant now, given
// the distance in meters between the current position and the alarm center.
//
// It performs no I/O and never mutates a.
func Decide(a *Alarm, now time.Time, distance float64) Decision {
	next := a.Clone()

	// The boundary is inclusive.
	if distance > a.Radius {
		return Decision{Alarm: next}
	}

	stamp := now

	switch a.Frequency {
	case FrequencyOnce:
		if a.LastNotifiedAt != nil && sameUTCDate(*a.LastNotifiedAt, now) {
			return Decision{Alarm: next}
		}

		next.LastNotifiedAt = &stamp
	case FrequencyRepeat:
		if a.LastRepeatedNotifiedAt != nil && now.Sub(*a.LastRepeatedNotifiedAt) <= RepeatCooldown {
			return Decision{Alarm: next}
		}

		next.LastRepeatedNotifiedAt = &stamp
	default:
		return Decision{Alarm: next}
	}

	return Decision{
		Fire:  true,
		Alarm: next,
	}
}

func sameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()

	return ay == by && am == bm && ad == bd
}
