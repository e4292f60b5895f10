package analytics

import (
	"sort"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

type tally struct {
	entry   domain.RankEntry
	members set
}

func (t *tally) add(member string) {
	if t.members == nil {
		t.members = set{}
	}
	t.members.add(member)
	t.entry.TotalScans++
}

// EventStats computes coverage and rankings for one event. Scans of other
// events are ignored. Rankings are capped at limit (DefaultRankingLimit when
// limit <= 0).
func EventStats(eventID string, booths []domain.Booth, attendees []domain.Attendee, scans []domain.ScanRecord, limit int) domain.EventStats {
	if limit <= 0 {
		limit = domain.DefaultRankingLimit
	}

	boothTallies := map[string]*tally{}
	var boothOrder []string
	for _, b := range booths {
		if b.EventID != eventID {
			continue
		}
		boothTallies[b.ID] = &tally{entry: domain.RankEntry{ID: b.ID, Label: b.Name, Company: b.Company}}
		boothOrder = append(boothOrder, b.ID)
	}

	people := map[string]domain.Attendee{}
	attendeeTotal := 0
	for _, a := range attendees {
		if a.EventID != eventID {
			continue
		}
		people[a.ID] = a
		attendeeTotal++
	}

	attendeeTallies := map[string]*tally{}
	companyTallies := map[string]*tally{}
	stats := domain.EventStats{EventID: eventID}

	for _, s := range scans {
		if s.EventID != eventID {
			continue
		}
		stats.TotalScans++

		bt, ok := boothTallies[s.BoothID]
		if !ok {
			bt = &tally{entry: domain.RankEntry{ID: s.BoothID}}
			boothTallies[s.BoothID] = bt
		}
		bt.add(s.AttendeeID)

		person := people[s.AttendeeID]
		at, ok := attendeeTallies[s.AttendeeID]
		if !ok {
			at = &tally{entry: domain.RankEntry{ID: s.AttendeeID, Label: person.Name, Company: person.Company}}
			attendeeTallies[s.AttendeeID] = at
		}
		at.add(s.BoothID)

		if person.Company == "" {
			continue
		}
		ct, ok := companyTallies[person.Company]
		if !ok {
			ct = &tally{entry: domain.RankEntry{ID: person.Company, Label: person.Company, Company: person.Company}}
			companyTallies[person.Company] = ct
		}
		ct.add(s.AttendeeID)
	}

	scannedBooths := 0
	all := make([]*tally, 0, len(boothOrder))
	for _, id := range boothOrder {
		t := boothTallies[id]
		if t.entry.TotalScans > 0 {
			scannedBooths++
		}
		all = append(all, t)
	}
	stats.Booths = coverage(len(boothOrder), scannedBooths)

	scannedAttendees := 0
	for id := range attendeeTallies {
		if _, ok := people[id]; ok {
			scannedAttendees++
		}
	}
	stats.Attendees = coverage(attendeeTotal, scannedAttendees)

	stats.TopBooths = top(scanned(boothTallies), limit)
	stats.TopAttendees = top(attendeeTallies, limit)
	stats.TopCompanies = top(companyTallies, limit)
	stats.LeastVisitedBooths = bottom(all, limit)
	return stats
}

func coverage(total, withScans int) domain.Coverage {
	return domain.Coverage{Total: total, WithScans: withScans, WithoutScans: total - withScans}
}

func scanned(tallies map[string]*tally) map[string]*tally {
	out := make(map[string]*tally, len(tallies))
	for id, t := range tallies {
		if t.entry.TotalScans > 0 {
			out[id] = t
		}
	}
	return out
}

func entries(tallies []*tally) []domain.RankEntry {
	out := make([]domain.RankEntry, 0, len(tallies))
	for _, t := range tallies {
		e := t.entry
		e.UniqueCount = len(t.members)
		out = append(out, e)
	}
	return out
}

// top ranks by distinct count, then total scans, both descending.
func top(tallies map[string]*tally, limit int) []domain.RankEntry {
	list := make([]*tally, 0, len(tallies))
	for _, t := range tallies {
		list = append(list, t)
	}
	out := entries(list)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.UniqueCount != b.UniqueCount {
			return a.UniqueCount > b.UniqueCount
		}
		if a.TotalScans != b.TotalScans {
			return a.TotalScans > b.TotalScans
		}
		return a.ID < b.ID
	})
	return truncate(out, limit)
}

func bottom(tallies []*tally, limit int) []domain.RankEntry {
	out := entries(tallies)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.UniqueCount != b.UniqueCount {
			return a.UniqueCount < b.UniqueCount
		}
		if a.TotalScans != b.TotalScans {
			return a.TotalScans < b.TotalScans
		}
		return a.ID < b.ID
	})
	return truncate(out, limit)
}

func truncate(out []domain.RankEntry, limit int) []domain.RankEntry {
	if len(out) > limit {
		return out[:limit]
	}
	return out
}
