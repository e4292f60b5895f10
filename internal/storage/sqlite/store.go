// Package sqlite is a single-file backend built on sqlx and go-sqlite3.
// Aggregates are computed by loading the relevant scan rows and reducing
// them with internal/analytics.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/foylaou/ExpoPass-sub000/internal/analytics"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sqlx.DB
}

// Open connects to the database file at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type eventRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (r eventRow) toDomain() domain.Event {
	return domain.Event{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
		Status:    domain.EventStatus(r.Status),
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type attendeeRow struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Company     string    `db:"company"`
	Title       string    `db:"title"`
	Phone       string    `db:"phone"`
	Token       string    `db:"qr_code_token"`
	BadgeNumber string    `db:"badge_number"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r attendeeRow) toDomain() domain.Attendee {
	return domain.Attendee{
		ID:          r.ID,
		EventID:     r.EventID,
		Name:        r.Name,
		Email:       r.Email,
		Company:     r.Company,
		Title:       r.Title,
		Phone:       r.Phone,
		Token:       r.Token,
		BadgeNumber: r.BadgeNumber,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type boothRow struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	Number      string    `db:"booth_number"`
	Name        string    `db:"name"`
	Company     string    `db:"company"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	Token       string    `db:"qr_code_token"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r boothRow) toDomain() domain.Booth {
	return domain.Booth{
		ID:          r.ID,
		EventID:     r.EventID,
		Number:      r.Number,
		Name:        r.Name,
		Company:     r.Company,
		Description: r.Description,
		Location:    r.Location,
		Token:       r.Token,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type scanRow struct {
	ID         string    `db:"id"`
	AttendeeID string    `db:"attendee_id"`
	BoothID    string    `db:"booth_id"`
	EventID    string    `db:"event_id"`
	ScannedAt  time.Time `db:"scanned_at"`
	Notes      string    `db:"notes"`
}

func (r scanRow) toDomain() domain.ScanRecord {
	return domain.ScanRecord{
		ID:         r.ID,
		AttendeeID: r.AttendeeID,
		BoothID:    r.BoothID,
		EventID:    r.EventID,
		ScannedAt:  r.ScannedAt.UTC(),
		Notes:      r.Notes,
	}
}

func (s *Store) CreateEvent(ctx context.Context, e domain.Event) error {
	const q = `
INSERT INTO events (id, name, code, start_date, end_date, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, e.ID, e.Name, e.Code, e.StartDate.UTC(), e.EndDate.UTC(), string(e.Status), e.CreatedAt.UTC())
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return domain.ErrDuplicateEventCode
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM events ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]domain.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	var row eventRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM events WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) CreateAttendee(ctx context.Context, a domain.Attendee) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tokenFree(ctx, tx, "booths", a.Token); err != nil {
			return err
		}
		const q = `
INSERT INTO attendees (id, event_id, name, email, company, title, phone, qr_code_token, badge_number, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, q, a.ID, a.EventID, a.Name, a.Email, a.Company, a.Title, a.Phone, a.Token, a.BadgeNumber, a.CreatedAt.UTC())
		if err != nil {
			return insertError("create attendee", err)
		}
		return nil
	})
}

func (s *Store) ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	rows, err := s.attendeesOf(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Attendee, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) attendeesOf(ctx context.Context, eventID string) ([]attendeeRow, error) {
	var rows []attendeeRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM attendees WHERE event_id = ? ORDER BY name ASC, id ASC`, eventID); err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return rows, nil
}

func (s *Store) GetAttendee(ctx context.Context, id string) (domain.Attendee, error) {
	var row attendeeRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM attendees WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Attendee{}, domain.ErrAttendeeNotFound
		}
		return domain.Attendee{}, fmt.Errorf("get attendee: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) FindAttendeeByToken(ctx context.Context, tok string) (*domain.Attendee, error) {
	var row attendeeRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM attendees WHERE qr_code_token = ?`, tok); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attendee by token: %w", err)
	}
	a := row.toDomain()
	return &a, nil
}

func (s *Store) CreateBooth(ctx context.Context, b domain.Booth) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tokenFree(ctx, tx, "attendees", b.Token); err != nil {
			return err
		}
		const q = `
INSERT INTO booths (id, event_id, booth_number, name, company, description, location, qr_code_token, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, q, b.ID, b.EventID, b.Number, b.Name, b.Company, b.Description, b.Location, b.Token, b.CreatedAt.UTC())
		if err != nil {
			return insertError("create booth", err)
		}
		return nil
	})
}

func (s *Store) ListBooths(ctx context.Context, eventID string) ([]domain.Booth, error) {
	var rows []boothRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM booths WHERE event_id = ? ORDER BY booth_number ASC, id ASC`, eventID); err != nil {
		return nil, fmt.Errorf("list booths: %w", err)
	}
	out := make([]domain.Booth, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) GetBooth(ctx context.Context, id string) (domain.Booth, error) {
	var row boothRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM booths WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booth{}, domain.ErrBoothNotFound
		}
		return domain.Booth{}, fmt.Errorf("get booth: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) FindBoothByToken(ctx context.Context, tok string) (*domain.Booth, error) {
	var row boothRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM booths WHERE qr_code_token = ?`, tok); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booth by token: %w", err)
	}
	b := row.toDomain()
	return &b, nil
}

func (s *Store) CreateScan(ctx context.Context, rec domain.ScanRecord) error {
	const q = `
INSERT INTO scan_records (id, attendee_id, booth_id, event_id, scanned_at, notes)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, rec.ID, rec.AttendeeID, rec.BoothID, rec.EventID, rec.ScannedAt.UTC(), rec.Notes)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return s.missingReference(ctx, rec)
		}
		return fmt.Errorf("create scan: %w", err)
	}
	return nil
}

// missingReference names which side of a rejected scan does not exist.
// SQLite does not report the violated foreign key.
func (s *Store) missingReference(ctx context.Context, rec domain.ScanRecord) error {
	if _, err := s.GetEvent(ctx, rec.EventID); err != nil {
		return err
	}
	if _, err := s.GetAttendee(ctx, rec.AttendeeID); err != nil {
		return err
	}
	if _, err := s.GetBooth(ctx, rec.BoothID); err != nil {
		return err
	}
	return fmt.Errorf("create scan: unresolved reference")
}

// ListScans returns matching scans, newest first.
func (s *Store) ListScans(ctx context.Context, f domain.ScanFilter) ([]domain.ScanRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.EventID != "" {
		where, args = append(where, "event_id = ?"), append(args, f.EventID)
	}
	if f.BoothID != "" {
		where, args = append(where, "booth_id = ?"), append(args, f.BoothID)
	}
	if f.AttendeeID != "" {
		where, args = append(where, "attendee_id = ?"), append(args, f.AttendeeID)
	}
	q := `SELECT * FROM scan_records`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY scanned_at DESC, rowid DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	return s.selectScans(ctx, q, args...)
}

func (s *Store) selectScans(ctx context.Context, q string, args ...any) ([]domain.ScanRecord, error) {
	var rows []scanRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select scans: %w", err)
	}
	out := make([]domain.ScanRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) boothScans(ctx context.Context, boothID string) ([]domain.ScanRecord, error) {
	return s.selectScans(ctx, `SELECT * FROM scan_records WHERE booth_id = ? ORDER BY scanned_at ASC`, boothID)
}

func (s *Store) BoothStats(ctx context.Context, boothID string) (domain.EntityStats, error) {
	scans, err := s.boothScans(ctx, boothID)
	if err != nil {
		return domain.EntityStats{}, err
	}
	return analytics.BoothStats(boothID, scans), nil
}

func (s *Store) AttendeeStats(ctx context.Context, attendeeID string) (domain.EntityStats, error) {
	scans, err := s.selectScans(ctx, `SELECT * FROM scan_records WHERE attendee_id = ? ORDER BY scanned_at ASC`, attendeeID)
	if err != nil {
		return domain.EntityStats{}, err
	}
	return analytics.AttendeeStats(attendeeID, scans), nil
}

func (s *Store) DailyHistogram(ctx context.Context, boothID string, q domain.DailyQuery) ([]domain.DailyBucket, error) {
	scans, err := s.boothScans(ctx, boothID)
	if err != nil {
		return nil, err
	}
	return analytics.Daily(boothID, scans, q), nil
}

func (s *Store) HourlyHistogram(ctx context.Context, boothID string, q domain.HourlyQuery) ([]domain.HourlyBucket, error) {
	scans, err := s.boothScans(ctx, boothID)
	if err != nil {
		return nil, err
	}
	return analytics.Hourly(boothID, scans, q), nil
}

func (s *Store) RepeatVisitors(ctx context.Context, boothID string) ([]domain.RepeatVisit, error) {
	scans, err := s.boothScans(ctx, boothID)
	if err != nil {
		return nil, err
	}
	var people []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	const q = `
SELECT DISTINCT a.id, a.name
FROM attendees a
JOIN scan_records s ON s.attendee_id = a.id
WHERE s.booth_id = ?`
	if err := s.db.SelectContext(ctx, &people, q, boothID); err != nil {
		return nil, fmt.Errorf("repeat visitor names: %w", err)
	}
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}
	return analytics.RepeatVisitors(boothID, scans, names), nil
}

func (s *Store) EventStats(ctx context.Context, eventID string, limit int) (domain.EventStats, error) {
	booths, err := s.ListBooths(ctx, eventID)
	if err != nil {
		return domain.EventStats{}, err
	}
	attendees, err := s.ListAttendees(ctx, eventID)
	if err != nil {
		return domain.EventStats{}, err
	}
	scans, err := s.selectScans(ctx, `SELECT * FROM scan_records WHERE event_id = ?`, eventID)
	if err != nil {
		return domain.EventStats{}, err
	}
	return analytics.EventStats(eventID, booths, attendees, scans, limit), nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// tokenFree reports ErrDuplicateToken when table already holds tok.
func tokenFree(ctx context.Context, tx *sqlx.Tx, table, tok string) error {
	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+table+` WHERE qr_code_token = ?`, tok); err != nil {
		return fmt.Errorf("check token: %w", err)
	}
	if n > 0 {
		return domain.ErrDuplicateToken
	}
	return nil
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) && sqlErr.ExtendedCode == code
}

func insertError(op string, err error) error {
	switch {
	case isConstraint(err, sqlite3.ErrConstraintForeignKey):
		return domain.ErrEventNotFound
	case isConstraint(err, sqlite3.ErrConstraintUnique):
		msg := err.Error()
		switch {
		case strings.Contains(msg, "qr_code_token"):
			return domain.ErrDuplicateToken
		case strings.Contains(msg, "email"):
			return domain.ErrDuplicateEmail
		case strings.Contains(msg, "booth_number"):
			return domain.ErrDuplicateBoothNumber
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
