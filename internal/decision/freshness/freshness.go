// Package freshness computes document ages against the caller's reference
// date.
package freshness

import "time"

// Maximum ages, in days, accepted for dated evidence.
const (
	ProofOfAddressMaxAgeDays = 90
	TaxCertificateMaxAgeDays = 90
	BankStatementMaxAgeDays  = 90
)

// Check names a dated document and its age limit.
type Check struct {
	Name       string
	Documents  []string
	Date       *time.Time
	MaxAgeDays int
}

// Result is the evaluated age of a Check.
type Result struct {
	Check      string
	Documents  []string
	Known      bool
	AgeDays    int
	MaxAgeDays int
	Fresh      bool
}

// Stale reports whether the document is known to be older than allowed.
func (r Result) Stale() bool {
	return r.Known && !r.Fresh
}

// Evaluate ages c at asOf. A missing date gives an unknown, not fresh, result.
func Evaluate(c Check, asOf time.Time) Result {
	r := Result{Check: c.Name, Documents: c.Documents, MaxAgeDays: c.MaxAgeDays}
	if c.Date == nil || c.Date.IsZero() {
		return r
	}
	r.Known = true
	r.AgeDays = DaysBetween(*c.Date, asOf)
	r.Fresh = r.AgeDays <= c.MaxAgeDays
	return r
}

// DateOnly drops the clock part of t, in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from from to to. It is negative when to
// is earlier.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
