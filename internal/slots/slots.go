// Package slots implements the slot generator: the
// Cartesian-product expansion of a date window, selected weekdays,
// draw times, and venues into a deterministic list of candidate Game
// slots, before any team is assigned to them.
package slots

import (
	"sort"
	"time"

	"github.com/dbs4261/drawsched/internal/domain"
	"github.com/dbs4261/drawsched/internal/drawerr"
)

// BlackoutDates is a set of whole calendar days excluded from slot
// generation entirely, regardless of weekday match, surfaced here
// rather than as a constraint-model concern.
type BlackoutDates map[time.Time]bool

// NewBlackoutDates builds a BlackoutDates set from a list of dates,
// normalizing each to midnight so lookups are time-of-day independent.
func NewBlackoutDates(dates []time.Time) BlackoutDates {
	set := make(BlackoutDates, len(dates))
	for _, d := range dates {
		set[dateOnly(d)] = true
	}
	return set
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Generate builds one Game per element of the Cartesian product
// dates × times [× venues], where dates is every date in
// [startDate, endDate] whose weekday is in weekdays (defaulting to
// startDate's own weekday), skipping any date present in blackout.
//
// Iteration order is deterministic (weeks outer, weekdays mid, times
// inner, venues innermost), guaranteed stable for a given input though
// callers should not depend on the particular ordering itself.
func Generate(startDate, endDate time.Time, times []time.Duration, weekdays []domain.Weekday, length *time.Duration, venues []domain.Venue, blackout BlackoutDates) ([]domain.Game, error) {
	if startDate.After(endDate) {
		return nil, drawerr.New(drawerr.InvalidInput, "start date is after end date")
	}

	if len(weekdays) == 0 {
		weekdays = []domain.Weekday{domain.FromDate(startDate)}
	}

	days := collectDays(startDate, endDate, weekdays, blackout)

	var games []domain.Game
	for _, d := range days {
		for _, t := range times {
			if len(venues) == 0 {
				games = append(games, domain.Game{Date: d, StartTime: t, Length: length})
				continue
			}
			for _, v := range venues {
				venue := v
				games = append(games, domain.Game{Date: d, StartTime: t, Length: length, Venue: &venue})
			}
		}
	}
	return games, nil
}

// collectDays walks week-by-week from each weekday's first on-or-after
// occurrence of startDate through endDate, in weeks-outer/weekdays-mid
// order, skipping blackout dates.
func collectDays(startDate, endDate time.Time, weekdays []domain.Weekday, blackout BlackoutDates) []time.Time {
	starts := make([]time.Time, len(weekdays))
	for i, w := range weekdays {
		starts[i] = domain.NextOnOrAfter(startDate, w)
	}

	var days []time.Time
	for week := 0; ; week++ {
		anyWithinRange := false
		for _, start := range starts {
			d := start.AddDate(0, 0, 7*week)
			if d.After(endDate) {
				continue
			}
			anyWithinRange = true
			if blackout[dateOnly(d)] {
				continue
			}
			days = append(days, d)
		}
		if !anyWithinRange {
			break
		}
	}
	return days
}

// SortGames returns games ordered by domain.Game.Compare, the order a
// Schedule expects its games slice to already be in once team
// assignment begins.
func SortGames(games []domain.Game) []domain.Game {
	out := make([]domain.Game, len(games))
	copy(out, games)
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
