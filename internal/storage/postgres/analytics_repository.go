package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// AnalyticsRepository computes the read views over scan_records in SQL.
// Date and hour buckets use AT TIME ZONE with the query's IANA location.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) BoothStats(ctx context.Context, boothID string) (domain.EntityStats, error) {
	const query = `
SELECT COUNT(DISTINCT attendee_id), COUNT(*), MAX(scanned_at)
FROM scan_records
WHERE booth_id = $1`
	return r.entityStats(ctx, query, boothID, domain.TokenKindBooth)
}

func (r *AnalyticsRepository) AttendeeStats(ctx context.Context, attendeeID string) (domain.EntityStats, error) {
	const query = `
SELECT COUNT(DISTINCT booth_id), COUNT(*), MAX(scanned_at)
FROM scan_records
WHERE attendee_id = $1`
	return r.entityStats(ctx, query, attendeeID, domain.TokenKindAttendee)
}

func (r *AnalyticsRepository) entityStats(ctx context.Context, query, id string, kind domain.TokenKind) (domain.EntityStats, error) {
	stats := domain.EntityStats{EntityID: id, Kind: kind}
	var last *time.Time
	err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&stats.CounterpartCount, &stats.TotalScans, &last)
	if err != nil {
		if isInvalidUUID(err) {
			return stats, nil
		}
		return domain.EntityStats{}, fmt.Errorf("%s stats: %w", kind, err)
	}
	if last != nil {
		t := last.UTC()
		stats.LastScan = &t
	}
	return stats, nil
}

func (r *AnalyticsRepository) DailyHistogram(ctx context.Context, boothID string, q domain.DailyQuery) ([]domain.DailyBucket, error) {
	const query = `
SELECT (scanned_at AT TIME ZONE $2)::date AS day, COUNT(DISTINCT attendee_id), COUNT(*)
FROM scan_records
WHERE booth_id = $1
	AND ($3::date IS NULL OR (scanned_at AT TIME ZONE $2)::date >= $3::date)
	AND ($4::date IS NULL OR (scanned_at AT TIME ZONE $2)::date <= $4::date)
GROUP BY day
ORDER BY day ASC`
	loc := location(q.Location)
	rows, err := conn(ctx, r.pool).Query(ctx, query, boothID, loc.String(), dateParam(q.From), dateParam(q.To))
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.DailyBucket{}, nil
		}
		return nil, fmt.Errorf("daily histogram: %w", err)
	}
	defer rows.Close()

	buckets := make([]domain.DailyBucket, 0)
	for rows.Next() {
		var (
			day time.Time
			b   domain.DailyBucket
		)
		if err := rows.Scan(&day, &b.UniqueVisitors, &b.TotalScans); err != nil {
			return nil, fmt.Errorf("scan daily bucket: %w", err)
		}
		b.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily buckets: %w", err)
	}
	return buckets, nil
}

func (r *AnalyticsRepository) HourlyHistogram(ctx context.Context, boothID string, q domain.HourlyQuery) ([]domain.HourlyBucket, error) {
	const query = `
SELECT EXTRACT(HOUR FROM scanned_at AT TIME ZONE $2)::int AS hour, COUNT(DISTINCT attendee_id), COUNT(*)
FROM scan_records
WHERE booth_id = $1
	AND ($3::date IS NULL OR (scanned_at AT TIME ZONE $2)::date = $3::date)
GROUP BY hour
ORDER BY hour ASC`
	loc := location(q.Location)
	rows, err := conn(ctx, r.pool).Query(ctx, query, boothID, loc.String(), dateParam(q.Day))
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.HourlyBucket{}, nil
		}
		return nil, fmt.Errorf("hourly histogram: %w", err)
	}
	defer rows.Close()

	buckets := make([]domain.HourlyBucket, 0)
	for rows.Next() {
		var b domain.HourlyBucket
		if err := rows.Scan(&b.Hour, &b.UniqueVisitors, &b.TotalScans); err != nil {
			return nil, fmt.Errorf("scan hourly bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly buckets: %w", err)
	}
	return buckets, nil
}

func (r *AnalyticsRepository) RepeatVisitors(ctx context.Context, boothID string) ([]domain.RepeatVisit, error) {
	const query = `
SELECT s.attendee_id::text, a.name, COUNT(*), MIN(s.scanned_at), MAX(s.scanned_at)
FROM scan_records s
JOIN attendees a ON a.id = s.attendee_id
WHERE s.booth_id = $1
GROUP BY s.attendee_id, a.name
HAVING COUNT(*) > 1
ORDER BY COUNT(*) DESC, MIN(s.scanned_at) ASC, s.attendee_id::text ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, boothID)
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.RepeatVisit{}, nil
		}
		return nil, fmt.Errorf("repeat visitors: %w", err)
	}
	defer rows.Close()

	visits := make([]domain.RepeatVisit, 0)
	for rows.Next() {
		var v domain.RepeatVisit
		if err := rows.Scan(&v.AttendeeID, &v.AttendeeName, &v.VisitCount, &v.FirstVisit, &v.LastVisit); err != nil {
			return nil, fmt.Errorf("scan repeat visit: %w", err)
		}
		v.FirstVisit, v.LastVisit = v.FirstVisit.UTC(), v.LastVisit.UTC()
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repeat visits: %w", err)
	}
	return visits, nil
}

const (
	boothCoverageQuery = `
SELECT COUNT(*), COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM scan_records s WHERE s.booth_id = b.id))
FROM booths b
WHERE b.event_id = $1`
	attendeeCoverageQuery = `
SELECT COUNT(*), COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM scan_records s WHERE s.attendee_id = a.id AND s.event_id = $1))
FROM attendees a
WHERE a.event_id = $1`
	topBoothsQuery = `
SELECT b.id::text, b.name, b.company, COUNT(DISTINCT s.attendee_id), COUNT(*)
FROM scan_records s
JOIN booths b ON b.id = s.booth_id
WHERE s.event_id = $1
GROUP BY b.id
ORDER BY 4 DESC, 5 DESC, 1 ASC
LIMIT $2`
	topAttendeesQuery = `
SELECT a.id::text, a.name, a.company, COUNT(DISTINCT s.booth_id), COUNT(*)
FROM scan_records s
JOIN attendees a ON a.id = s.attendee_id
WHERE s.event_id = $1
GROUP BY a.id
ORDER BY 4 DESC, 5 DESC, 1 ASC
LIMIT $2`
	topCompaniesQuery = `
SELECT a.company, a.company, a.company, COUNT(DISTINCT s.attendee_id), COUNT(*)
FROM scan_records s
JOIN attendees a ON a.id = s.attendee_id
WHERE s.event_id = $1 AND a.company <> ''
GROUP BY a.company
ORDER BY 4 DESC, 5 DESC, 1 ASC
LIMIT $2`
	leastVisitedQuery = `
SELECT b.id::text, b.name, b.company, COUNT(DISTINCT s.attendee_id), COUNT(s.id)
FROM booths b
LEFT JOIN scan_records s ON s.booth_id = b.id
WHERE b.event_id = $1
GROUP BY b.id
ORDER BY 4 ASC, 5 ASC, 1 ASC
LIMIT $2`
)

// EventStats runs the coverage and ranking queries concurrently on the pool.
func (r *AnalyticsRepository) EventStats(ctx context.Context, eventID string, limit int) (domain.EventStats, error) {
	if limit <= 0 {
		limit = domain.DefaultRankingLimit
	}
	stats := domain.EventStats{EventID: eventID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := r.coverage(gctx, boothCoverageQuery, eventID)
		stats.Booths = c
		return err
	})
	g.Go(func() error {
		c, err := r.coverage(gctx, attendeeCoverageQuery, eventID)
		stats.Attendees = c
		return err
	})
	g.Go(func() error {
		err := r.pool.QueryRow(gctx, `SELECT COUNT(*) FROM scan_records WHERE event_id = $1`, eventID).Scan(&stats.TotalScans)
		if err != nil {
			return fmt.Errorf("count event scans: %w", err)
		}
		return nil
	})
	rankings := []struct {
		query string
		dst   *[]domain.RankEntry
	}{
		{topBoothsQuery, &stats.TopBooths},
		{topAttendeesQuery, &stats.TopAttendees},
		{topCompaniesQuery, &stats.TopCompanies},
		{leastVisitedQuery, &stats.LeastVisitedBooths},
	}
	for _, rk := range rankings {
		rk := rk
		g.Go(func() error {
			entries, err := r.ranking(gctx, rk.query, eventID, limit)
			*rk.dst = entries
			return err
		})
	}

	if err := g.Wait(); err != nil {
		if isInvalidUUID(err) {
			return domain.EventStats{}, domain.ErrEventNotFound
		}
		return domain.EventStats{}, err
	}
	return stats, nil
}

func (r *AnalyticsRepository) coverage(ctx context.Context, query, eventID string) (domain.Coverage, error) {
	var c domain.Coverage
	if err := r.pool.QueryRow(ctx, query, eventID).Scan(&c.Total, &c.WithScans); err != nil {
		return domain.Coverage{}, fmt.Errorf("coverage: %w", err)
	}
	c.WithoutScans = c.Total - c.WithScans
	return c, nil
}

func (r *AnalyticsRepository) ranking(ctx context.Context, query, eventID string, limit int) ([]domain.RankEntry, error) {
	rows, err := r.pool.Query(ctx, query, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RankEntry, error) {
		var e domain.RankEntry
		err := row.Scan(&e.ID, &e.Label, &e.Company, &e.UniqueCount, &e.TotalScans)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}
	if entries == nil {
		entries = []domain.RankEntry{}
	}
	return entries, nil
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// dateParam renders t's own calendar date for a ::date parameter; nil stays NULL.
func dateParam(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
