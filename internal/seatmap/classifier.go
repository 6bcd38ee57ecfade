package seatmap

import "time"

// DOBLayout is the wire format for passenger dates of birth.
const DOBLayout = "2006-01-02"

// Age band thresholds in whole years.  Passengers younger than 12 are
// children, passengers of 60 and above are seniors, everyone else is an
// adult.  Classification is relative to the booking request time, not
// the flight date.
const (
	childAgeLimit  = 12
	seniorAgeFloor = 60
)

// AgeBand partitions passengers for seat preference purposes.
type AgeBand int

const (
	BandAdult AgeBand = iota
	BandChild
	BandSenior
)

// ageInYears returns the number of whole years elapsed between dob and
// now, i.e. the age a person born on dob has at the instant now.
func ageInYears(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if dob.AddDate(years, 0, 0).After(now) {
		years--
	}
	return years
}

// IsChild reports whether a passenger born on dob is under 12 at now.
func IsChild(dob, now time.Time) bool {
	return ageInYears(dob, now) < childAgeLimit
}

// IsSenior reports whether a passenger born on dob is 60 or older at now.
func IsSenior(dob, now time.Time) bool {
	return ageInYears(dob, now) >= seniorAgeFloor
}

// Classify maps a date of birth to its age band at the given instant.
func Classify(dob, now time.Time) AgeBand {
	switch {
	case IsChild(dob, now):
		return BandChild
	case IsSenior(dob, now):
		return BandSenior
	default:
		return BandAdult
	}
}
