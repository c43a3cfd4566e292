package rates

import "time"

// EffectiveRate selects the base rate in force on asOf: the most recent record
// with effective_date <= asOf whose interval has not ended before asOf. Rate
// histories are maintained non-overlapping (AddBaseRate closes the open
// predecessor), so at most one record can match; taking the newest matching
// effective date also gives a sane answer if that invariant was ever broken
// by hand-edited data.
func EffectiveRate(history []BaseRate, asOf time.Time) (BaseRate, bool) {
	day := truncateToDay(asOf)

	var best BaseRate
	found := false
	for _, rate := range history {
		effective := truncateToDay(rate.EffectiveDate)
		if effective.After(day) {
			continue
		}
		if rate.EndDate != nil && truncateToDay(*rate.EndDate).Before(day) {
			continue
		}
		if !found || effective.After(truncateToDay(best.EffectiveDate)) {
			best = rate
			found = true
		}
	}
	return best, found
}

// Rate intervals are calendar-date based; drop the time-of-day component so a
// rate effective "Mar 1" matches any moment of Mar 1 regardless of zone offset
// in the caller's timestamp.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
