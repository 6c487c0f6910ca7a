package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventmanagement/internal/domain"
)

const selectEvent = `
	SELECT e.id, e.name, e.description, e.venue, e.event_date, e.category, e.event_type,
	       e.price, e.total_seats, e.status, e.host_id, e.registration_ids,
	       e.created_at, e.updated_at, u.name, u.email
	FROM events e
	JOIN users u ON u.id = e.host_id
`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (id, name, description, venue, event_date, category, event_type,
		                    price, total_seats, status, host_id, registration_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Name, e.Description, e.Venue, e.Date, e.Category, e.Type,
		e.Price, e.TotalSeats, e.Status, e.HostID, pq.Array(e.RegistrationIDs),
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func scanEvent(row interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	e := &domain.Event{Host: &domain.HostSummary{}}
	var regIDs pq.StringArray
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Venue, &e.Date, &e.Category, &e.Type,
		&e.Price, &e.TotalSeats, &e.Status, &e.HostID, &regIDs,
		&e.CreatedAt, &e.UpdatedAt, &e.Host.Name, &e.Host.Email,
	)
	if err != nil {
		return nil, err
	}
	e.Host.ID = e.HostID
	e.RegistrationIDs = []string(regIDs)
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := selectEvent + ` WHERE e.id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// filterSQL renders the WHERE clause for filter, appending its arguments to
// args. The returned clause is empty when no conditions apply.
func filterSQL(filter domain.EventFilter, now time.Time, args []any) (string, []any) {
	var conds []string
	if !filter.IncludePast {
		args = append(args, now)
		conds = append(conds, fmt.Sprintf("e.event_date >= $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(e.name ILIKE $%d OR e.description ILIKE $%d OR e.venue ILIKE $%d)", n, n, n))
	}
	if filter.Category != "" && filter.Category != "all" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("e.category = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, sort domain.EventSort, page domain.PaginationParams, now time.Time) ([]*domain.Event, error) {
	where, args := filterSQL(filter, now, nil)
	order, args := sortStrategyFor(sort, now).orderBy(args)
	args = append(args, page.PageSize, page.Offset())
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		selectEvent, where, order, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter domain.EventFilter, now time.Time) (int, error) {
	where, args := filterSQL(filter, now, nil)
	query := "SELECT COUNT(*) FROM events e" + where
	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	query := selectEvent + ` WHERE e.host_id = $1 ORDER BY e.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Venue != nil {
		add("venue", *patch.Venue)
	}
	if patch.Date != nil {
		add("event_date", *patch.Date)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Type != nil {
		add("event_type", *patch.Type)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.TotalSeats != nil {
		add("total_seats", *patch.TotalSeats)
	}
	if len(args) == 0 {
		// No fields to update; just fetch the current row.
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d", strings.Join(setClauses, ", "), len(args))
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AppendRegistrationID is the optimistic check-and-set that closes the
// overbooking race: the append only happens while the row's occupancy is
// still below capacity, so concurrent admissions serialize at the store and
// the returned occupancy uniquely identifies the admission that filled the
// last seat.
func (r *eventRepository) AppendRegistrationID(ctx context.Context, eventID, regID string) (int, int, error) {
	query := `
		UPDATE events
		SET registration_ids = array_append(registration_ids, $2), updated_at = NOW()
		WHERE id = $1 AND cardinality(registration_ids) < total_seats
		RETURNING cardinality(registration_ids), total_seats
	`
	var occupancy, totalSeats int
	err := r.DB.QueryRowContext(ctx, query, eventID, regID).Scan(&occupancy, &totalSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, domain.ErrCapacityExceeded
		}
		return 0, 0, err
	}
	return occupancy, totalSeats, nil
}

func (r *eventRepository) RemoveRegistrationID(ctx context.Context, eventID, regID string) error {
	query := `
		UPDATE events
		SET registration_ids = array_remove(registration_ids, $2), updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, regID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND event_date < $3
	`
	result, err := r.DB.ExecContext(ctx, query, domain.StatusCompleted, domain.StatusActive, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
