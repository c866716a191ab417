package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/travel-api/internal/database"
	"github.com/iliyamo/travel-api/internal/model"
)

// TravelRepo encapsulates all database queries related to travels.
type TravelRepo struct {
	db *sql.DB
}

func NewTravelRepo(db *sql.DB) *TravelRepo {
	return &TravelRepo{db: db}
}

const travelColumns = "id, name, slug, description, number_of_days, is_public, created_at, updated_at"

func scanTravel(s rowScanner) (model.Travel, error) {
	var t model.Travel
	err := s.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.NumberOfDays, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns one page of travels in insertion order.  With publicOnly set
// only travels flagged is_public are considered.
func (r *TravelRepo) List(ctx context.Context, publicOnly bool, page PageRequest) ([]model.Travel, int64, error) {
	cond := "1=1"
	if publicOnly {
		cond = "is_public = 1"
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM travels WHERE "+cond).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count travels: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+travelColumns+" FROM travels WHERE "+cond+" ORDER BY id ASC LIMIT ? OFFSET ?",
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list travels: %w", err)
	}
	defer rows.Close()

	out := make([]model.Travel, 0, page.Limit())
	for rows.Next() {
		t, err := scanTravel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan travel: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches any travel regardless of visibility.
func (r *TravelRepo) GetByID(ctx context.Context, id uint64) (model.Travel, error) {
	return r.getOne(ctx, "SELECT "+travelColumns+" FROM travels WHERE id = ? LIMIT 1", id)
}

// GetPublicBySlug fetches a travel by slug only when it is public.  Private
// travels are indistinguishable from missing ones.  Slugs are not unique;
// the oldest public travel wins.
func (r *TravelRepo) GetPublicBySlug(ctx context.Context, slug string) (model.Travel, error) {
	return r.getOne(ctx, "SELECT "+travelColumns+" FROM travels WHERE slug = ? AND is_public = 1 ORDER BY id ASC LIMIT 1", slug)
}

func (r *TravelRepo) getOne(ctx context.Context, query string, args ...any) (model.Travel, error) {
	t, err := scanTravel(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Travel{}, ErrTravelNotFound
		}
		return model.Travel{}, fmt.Errorf("get travel: %w", err)
	}
	return t, nil
}

// NameExists reports whether another travel already uses name.  exceptID
// excludes the travel being updated; pass 0 on create.
func (r *TravelRepo) NameExists(ctx context.Context, name string, exceptID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM travels WHERE name = ? AND id <> ?", name, exceptID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check travel name: %w", err)
	}
	return n > 0, nil
}

// Create inserts t and fills in its ID and timestamps.
func (r *TravelRepo) Create(ctx context.Context, t *model.Travel) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO travels (name, slug, description, number_of_days, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`,
		t.Name, t.Slug, t.Description, t.NumberOfDays, t.IsPublic)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrTravelNameTaken
		}
		return fmt.Errorf("insert travel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = created
	return nil
}

// Update overwrites the mutable fields of t, including its slug.
func (r *TravelRepo) Update(ctx context.Context, t *model.Travel) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE travels SET name = ?, slug = ?, description = ?, number_of_days = ?, is_public = ?, updated_at = UTC_TIMESTAMP()
		 WHERE id = ?`,
		t.Name, t.Slug, t.Description, t.NumberOfDays, t.IsPublic, t.ID)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrTravelNameTaken
		}
		return fmt.Errorf("update travel: %w", err)
	}
	updated, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = updated
	return nil
}
