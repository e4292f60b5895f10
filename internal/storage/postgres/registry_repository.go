package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistryRepository stores events, attendees and booths, and resolves
// QR tokens back to them.
type RegistryRepository struct {
	pool *pgxpool.Pool
}

func NewRegistryRepository(pool *pgxpool.Pool) *RegistryRepository {
	return &RegistryRepository{pool: pool}
}

func (r *RegistryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *RegistryRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, code, start_date, end_date, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := conn(ctx, r.pool).Exec(ctx, stmt,
		event.ID, event.Name, event.Code, event.StartDate, event.EndDate, event.Status, event.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEventCode
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

const eventColumns = `id, name, code, start_date, end_date, status, created_at`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Name, &e.Code, &e.StartDate, &e.EndDate, &e.Status, &e.CreatedAt)
	return e, err
}

func (r *RegistryRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *RegistryRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	e, err := scanEvent(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// CreateAttendee inserts an attendee. Tokens are unique across attendees and
// booths, so the booth table is checked in the same transaction.
func (r *RegistryRepository) CreateAttendee(ctx context.Context, a domain.Attendee) error {
	return r.WithTx(ctx, func(ctx context.Context) error {
		if err := r.checkTokenFree(ctx, "booths", a.Token); err != nil {
			return err
		}
		const stmt = `
INSERT INTO attendees (id, event_id, name, email, company, title, phone, qr_code_token, badge_number, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := conn(ctx, r.pool).Exec(ctx, stmt,
			a.ID, a.EventID, a.Name, a.Email, a.Company, a.Title, a.Phone, a.Token, a.BadgeNumber, a.CreatedAt)
		if err != nil {
			return registryInsertError("create attendee", err)
		}
		return nil
	})
}

const attendeeColumns = `id, event_id, name, email, company, title, phone, qr_code_token, badge_number, created_at`

func scanAttendee(row pgx.Row) (domain.Attendee, error) {
	var a domain.Attendee
	err := row.Scan(&a.ID, &a.EventID, &a.Name, &a.Email, &a.Company, &a.Title, &a.Phone, &a.Token, &a.BadgeNumber, &a.CreatedAt)
	return a, err
}

func (r *RegistryRepository) ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+attendeeColumns+` FROM attendees WHERE event_id = $1 ORDER BY name ASC, id ASC`, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	attendees := make([]domain.Attendee, 0)
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("iterate attendees: %w", rows.Err())
	}
	return attendees, nil
}

func (r *RegistryRepository) GetAttendee(ctx context.Context, id string) (domain.Attendee, error) {
	a, err := scanAttendee(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Attendee{}, domain.ErrAttendeeNotFound
		}
		return domain.Attendee{}, fmt.Errorf("get attendee: %w", err)
	}
	return a, nil
}

// FindAttendeeByToken returns nil when no attendee carries tok.
func (r *RegistryRepository) FindAttendeeByToken(ctx context.Context, tok string) (*domain.Attendee, error) {
	a, err := scanAttendee(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE qr_code_token = $1`, tok))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attendee by token: %w", err)
	}
	return &a, nil
}

func (r *RegistryRepository) CreateBooth(ctx context.Context, b domain.Booth) error {
	return r.WithTx(ctx, func(ctx context.Context) error {
		if err := r.checkTokenFree(ctx, "attendees", b.Token); err != nil {
			return err
		}
		const stmt = `
INSERT INTO booths (id, event_id, booth_number, name, company, description, location, qr_code_token, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		_, err := conn(ctx, r.pool).Exec(ctx, stmt,
			b.ID, b.EventID, b.Number, b.Name, b.Company, b.Description, b.Location, b.Token, b.CreatedAt)
		if err != nil {
			return registryInsertError("create booth", err)
		}
		return nil
	})
}

const boothColumns = `id, event_id, booth_number, name, company, description, location, qr_code_token, created_at`

func scanBooth(row pgx.Row) (domain.Booth, error) {
	var b domain.Booth
	err := row.Scan(&b.ID, &b.EventID, &b.Number, &b.Name, &b.Company, &b.Description, &b.Location, &b.Token, &b.CreatedAt)
	return b, err
}

func (r *RegistryRepository) ListBooths(ctx context.Context, eventID string) ([]domain.Booth, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+boothColumns+` FROM booths WHERE event_id = $1 ORDER BY booth_number ASC, id ASC`, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("list booths: %w", err)
	}
	defer rows.Close()

	booths := make([]domain.Booth, 0)
	for rows.Next() {
		b, err := scanBooth(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booth: %w", err)
		}
		booths = append(booths, b)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("iterate booths: %w", rows.Err())
	}
	return booths, nil
}

func (r *RegistryRepository) GetBooth(ctx context.Context, id string) (domain.Booth, error) {
	b, err := scanBooth(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+boothColumns+` FROM booths WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return domain.Booth{}, domain.ErrBoothNotFound
		}
		return domain.Booth{}, fmt.Errorf("get booth: %w", err)
	}
	return b, nil
}

// FindBoothByToken returns nil when no booth carries tok.
func (r *RegistryRepository) FindBoothByToken(ctx context.Context, tok string) (*domain.Booth, error) {
	b, err := scanBooth(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+boothColumns+` FROM booths WHERE qr_code_token = $1`, tok))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booth by token: %w", err)
	}
	return &b, nil
}

// checkTokenFree reports ErrDuplicateToken when the other entity table
// already holds tok. table is one of two fixed names.
func (r *RegistryRepository) checkTokenFree(ctx context.Context, table, tok string) error {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE qr_code_token = $1)`
	if err := conn(ctx, r.pool).QueryRow(ctx, query, tok).Scan(&taken); err != nil {
		return fmt.Errorf("check token: %w", err)
	}
	if taken {
		return domain.ErrDuplicateToken
	}
	return nil
}

func registryInsertError(op string, err error) error {
	switch {
	case isInvalidUUID(err):
		return domain.ErrEventNotFound
	case isForeignKeyViolation(err):
		return domain.ErrEventNotFound
	case isUniqueViolation(err):
		switch constraintName(err) {
		case "attendees_qr_code_token_key", "booths_qr_code_token_key":
			return domain.ErrDuplicateToken
		case "attendees_event_email_key":
			return domain.ErrDuplicateEmail
		case "booths_event_number_key":
			return domain.ErrDuplicateBoothNumber
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
