// Package analytics reduces a scan log into the read views served by the
// analytics service. Every function is pure: it never mutates its inputs and
// filters the log itself, so callers may pass a superset of the relevant
// records. Stores that cannot aggregate in SQL load rows and call these.
package analytics

import (
	"sort"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

type set map[string]struct{}

func (s set) add(id string) { s[id] = struct{}{} }

// BoothStats counts the distinct attendees and total scans of one booth.
func BoothStats(boothID string, scans []domain.ScanRecord) domain.EntityStats {
	return entityStats(boothID, domain.TokenKindBooth, scans,
		func(s domain.ScanRecord) (string, string) { return s.BoothID, s.AttendeeID })
}

// AttendeeStats counts the distinct booths and total scans of one attendee.
func AttendeeStats(attendeeID string, scans []domain.ScanRecord) domain.EntityStats {
	return entityStats(attendeeID, domain.TokenKindAttendee, scans,
		func(s domain.ScanRecord) (string, string) { return s.AttendeeID, s.BoothID })
}

func entityStats(id string, kind domain.TokenKind, scans []domain.ScanRecord, keys func(domain.ScanRecord) (self, other string)) domain.EntityStats {
	stats := domain.EntityStats{EntityID: id, Kind: kind}
	counterparts := set{}
	for _, s := range scans {
		self, other := keys(s)
		if self != id {
			continue
		}
		counterparts.add(other)
		stats.TotalScans++
		if stats.LastScan == nil || s.ScannedAt.After(*stats.LastScan) {
			at := s.ScannedAt
			stats.LastScan = &at
		}
	}
	stats.CounterpartCount = len(counterparts)
	return stats
}

type bucket struct {
	visitors set
	total    int
}

func (b *bucket) add(attendeeID string) {
	if b.visitors == nil {
		b.visitors = set{}
	}
	b.visitors.add(attendeeID)
	b.total++
}

// Daily buckets a booth's scans by calendar date in q.Location, keeping only
// dates inside the inclusive [From, To] range. Dates come back ascending.
func Daily(boothID string, scans []domain.ScanRecord, q domain.DailyQuery) []domain.DailyBucket {
	loc := location(q.Location)
	from, hasFrom := dateKeyOf(q.From)
	to, hasTo := dateKeyOf(q.To)

	buckets := map[int]*bucket{}
	for _, s := range scans {
		if s.BoothID != boothID {
			continue
		}
		key := dateKey(s.ScannedAt.In(loc))
		if hasFrom && key < from {
			continue
		}
		if hasTo && key > to {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.add(s.AttendeeID)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]domain.DailyBucket, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, domain.DailyBucket{
			Date:           dateFromKey(k, loc),
			UniqueVisitors: len(b.visitors),
			TotalScans:     b.total,
		})
	}
	return out
}

// Hourly buckets a booth's scans by hour of day (0-23) in q.Location,
// optionally restricted to the calendar date q.Day. Only hours with scans
// are returned, ascending.
func Hourly(boothID string, scans []domain.ScanRecord, q domain.HourlyQuery) []domain.HourlyBucket {
	loc := location(q.Location)
	day, hasDay := dateKeyOf(q.Day)

	var hours [24]bucket
	for _, s := range scans {
		if s.BoothID != boothID {
			continue
		}
		local := s.ScannedAt.In(loc)
		if hasDay && dateKey(local) != day {
			continue
		}
		hours[local.Hour()].add(s.AttendeeID)
	}

	var out []domain.HourlyBucket
	for h := range hours {
		if hours[h].total == 0 {
			continue
		}
		out = append(out, domain.HourlyBucket{
			Hour:           h,
			UniqueVisitors: len(hours[h].visitors),
			TotalScans:     hours[h].total,
		})
	}
	if out == nil {
		out = []domain.HourlyBucket{}
	}
	return out
}

// RepeatVisitors lists attendees with more than one scan at the booth.
// names resolves attendee IDs to display names and may be nil.
func RepeatVisitors(boothID string, scans []domain.ScanRecord, names map[string]string) []domain.RepeatVisit {
	visits := map[string]*domain.RepeatVisit{}
	for _, s := range scans {
		if s.BoothID != boothID {
			continue
		}
		v, ok := visits[s.AttendeeID]
		if !ok {
			v = &domain.RepeatVisit{
				AttendeeID:   s.AttendeeID,
				AttendeeName: names[s.AttendeeID],
				FirstVisit:   s.ScannedAt,
				LastVisit:    s.ScannedAt,
			}
			visits[s.AttendeeID] = v
		}
		v.VisitCount++
		if s.ScannedAt.Before(v.FirstVisit) {
			v.FirstVisit = s.ScannedAt
		}
		if s.ScannedAt.After(v.LastVisit) {
			v.LastVisit = s.ScannedAt
		}
	}

	out := make([]domain.RepeatVisit, 0)
	for _, v := range visits {
		if v.VisitCount > 1 {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.VisitCount != b.VisitCount {
			return a.VisitCount > b.VisitCount
		}
		if !a.FirstVisit.Equal(b.FirstVisit) {
			return a.FirstVisit.Before(b.FirstVisit)
		}
		return a.AttendeeID < b.AttendeeID
	})
	return out
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// dateKeyOf reads the calendar fields of a date bound as given, without
// shifting it into another zone.
func dateKeyOf(t *time.Time) (int, bool) {
	if t == nil {
		return 0, false
	}
	return dateKey(*t), true
}

func dateFromKey(key int, loc *time.Location) time.Time {
	return time.Date(key/10000, time.Month(key/100%100), key%100, 0, 0, 0, 0, loc)
}
