package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/travel-api/internal/database"
	"github.com/iliyamo/travel-api/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, name, email, password, created_at, updated_at"

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a user by email exactly as stored.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
}

// EmailExists reports whether a user with email is already registered.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&n); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

// RoleNames loads the roles assigned to a user through role_user.  Names
// the application does not know are skipped.
func (r *UserRepo) RoleNames(ctx context.Context, userID uint64) (model.RoleSet, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.name FROM roles r
		 JOIN role_user ru ON ru.role_id = r.id
		 WHERE ru.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	set := model.NewRoleSet()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if role, err := model.ParseRole(name); err == nil {
			set[role] = struct{}{}
		}
	}
	return set, rows.Err()
}

// CreateWithRoles inserts a user and attaches roles in one transaction.
// Either the user exists with all roles afterwards or nothing was written.
func (r *UserRepo) CreateWithRoles(ctx context.Context, u *model.User, roles []model.Role) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (name, email, password, created_at, updated_at)
		 VALUES (?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`,
		u.Name, u.Email, u.PasswordHash)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	for _, role := range roles {
		var roleID uint64
		if err = tx.QueryRowContext(ctx, "SELECT id FROM roles WHERE name = ?", string(role)).Scan(&roleID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
			}
			return fmt.Errorf("resolve role %s: %w", role, err)
		}
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO role_user (role_id, user_id) VALUES (?, ?)", roleID, u.ID); err != nil {
			return fmt.Errorf("attach role %s: %w", role, err)
		}
	}
	return nil
}
