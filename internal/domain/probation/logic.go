package probation

import "time"

const (
	StatusActive     = "active"
	StatusExtended   = "extended"
	StatusConfirmed  = "confirmed"
	StatusTerminated = "terminated"

	// HR policy bounds the number of extensions regardless of the
	// duration requested per extension.
	MaxExtensions = 2
)

// CanExtend reports whether another extension is allowed at the given
// count.
func CanExtend(extensionCount int) bool {
	return extensionCount < MaxExtensions
}

// NextEndDate advances an end date by whole calendar months, not fixed
// 30-day increments.
func NextEndDate(currentEnd time.Time, months int) time.Time {
	return currentEnd.AddDate(0, months, 0)
}

// open reports whether the record can still move to a terminal outcome.
func open(status string) bool {
	return status == StatusActive || status == StatusExtended
}
