package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/travel-api/internal/model"
)

// TourRepo encapsulates all database queries related to tours.
type TourRepo struct {
	db *sql.DB
}

func NewTourRepo(db *sql.DB) *TourRepo {
	return &TourRepo{db: db}
}

const tourColumns = "id, travel_id, name, starting_date, ending_date, price, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(s rowScanner) (model.Tour, error) {
	var (
		t     model.Tour
		price int64
	)
	if err := s.Scan(&t.ID, &t.TravelID, &t.Name, &t.StartingDate, &t.EndingDate, &price, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return model.Tour{}, err
	}
	t.Price = model.MoneyFromMinor(price)
	return t, nil
}

// ListByTravel returns one page of the travel's tours matching f together
// with the total number of matches.
func (r *TourRepo) ListByTravel(ctx context.Context, travelID uint64, f TourFilter, page PageRequest) ([]model.Tour, int64, error) {
	where, args, orderBy := BuildTourQuery(travelID, f)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tours WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tours: %w", err)
	}

	query := "SELECT " + tourColumns + " FROM tours WHERE " + where + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()

	out := make([]model.Tour, 0, page.Limit())
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tour: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetForTravel loads a tour only if it belongs to travelID.  A tour of a
// different travel is reported as ErrTourNotFound, same as a missing one.
func (r *TourRepo) GetForTravel(ctx context.Context, travelID, tourID uint64) (model.Tour, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+tourColumns+" FROM tours WHERE id = ? AND travel_id = ? LIMIT 1", tourID, travelID)
	t, err := scanTour(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tour{}, ErrTourNotFound
		}
		return model.Tour{}, fmt.Errorf("get tour: %w", err)
	}
	return t, nil
}

// Create inserts t and fills in its ID and timestamps.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tours (travel_id, name, starting_date, ending_date, price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`,
		t.TravelID, t.Name, t.StartingDate, t.EndingDate, t.Price.Minor())
	if err != nil {
		return fmt.Errorf("insert tour: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetForTravel(ctx, t.TravelID, uint64(id))
	if err != nil {
		return err
	}
	*t = created
	return nil
}

// Update writes the mutable fields of t, scoped to its travel.
func (r *TourRepo) Update(ctx context.Context, t *model.Tour) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tours SET name = ?, starting_date = ?, ending_date = ?, price = ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ? AND travel_id = ?`,
		t.Name, t.StartingDate, t.EndingDate, t.Price.Minor(), t.ID, t.TravelID)
	if err != nil {
		return fmt.Errorf("update tour: %w", err)
	}
	// MySQL reports 0 affected rows when nothing changed, so existence is
	// confirmed by reloading instead of checking RowsAffected.
	updated, err := r.GetForTravel(ctx, t.TravelID, t.ID)
	if err != nil {
		return err
	}
	*t = updated
	return nil
}
