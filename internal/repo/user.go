package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/userlist/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================

// Create inserts one row. A nil name is stored as NULL. The id is assigned by the store.
func (r *UserRepo) Create(ctx context.Context, name *string) (*models.User, error) {
	query := `
		INSERT INTO users (name)
		VALUES ($1)
		RETURNING id, name
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, name).
		Scan(&user.ID, &user.Name)

	if err != nil {
		return nil, &StorageError{Op: "create user", Err: err}
	}

	return user, nil
}

// ==========================
// List Users
// ==========================

// List returns every row. The result is never nil so it encodes as [] when empty.
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, &StorageError{Op: "list users", Err: err}
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, &StorageError{Op: "scan user", Err: err}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list users", Err: err}
	}

	return users, nil
}
