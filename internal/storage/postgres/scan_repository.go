package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScanRepository appends to and reads the scan log.
type ScanRepository struct {
	pool *pgxpool.Pool
}

func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

func (r *ScanRepository) CreateScan(ctx context.Context, rec domain.ScanRecord) error {
	const stmt = `
INSERT INTO scan_records (id, attendee_id, booth_id, event_id, scanned_at, notes)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := conn(ctx, r.pool).Exec(ctx, stmt,
		rec.ID, rec.AttendeeID, rec.BoothID, rec.EventID, rec.ScannedAt, rec.Notes)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			switch constraintName(err) {
			case "scan_records_attendee_id_fkey":
				return domain.ErrAttendeeNotFound
			case "scan_records_booth_id_fkey":
				return domain.ErrBoothNotFound
			default:
				return domain.ErrEventNotFound
			}
		}
		return fmt.Errorf("create scan: %w", err)
	}
	return nil
}

// ListScans returns matching scans, newest first.
func (r *ScanRepository) ListScans(ctx context.Context, f domain.ScanFilter) ([]domain.ScanRecord, error) {
	var (
		where []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("event_id", f.EventID)
	add("booth_id", f.BoothID)
	add("attendee_id", f.AttendeeID)

	query := `SELECT id, attendee_id, booth_id, event_id, scanned_at, notes FROM scan_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY scanned_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return []domain.ScanRecord{}, nil
		}
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	scans := make([]domain.ScanRecord, 0)
	for rows.Next() {
		var s domain.ScanRecord
		if err := rows.Scan(&s.ID, &s.AttendeeID, &s.BoothID, &s.EventID, &s.ScannedAt, &s.Notes); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		scans = append(scans, s)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return []domain.ScanRecord{}, nil
		}
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return scans, nil
}
