package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"shoppingify/internal/models"
)

// SQLiteStore backs single-node installs and the test suites.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) Create(ctx context.Context, nu models.NewUser) (*models.User, error) {
	items, active, err := newUserDocs(nu)
	if err != nil {
		return nil, err
	}

	t := now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, items, active_shopping_list, shopping_history, created_at, updated_at)
		 VALUES (?, ?, ?, ?, '[]', ?, ?)`,
		nu.Email, nu.PasswordHash, string(items), string(active), t, t)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.FindByID(ctx, int(id))
}

func (s *SQLiteStore) UpdateItems(ctx context.Context, id int, items models.Catalog) error {
	return s.updateDoc(ctx, "items", id, items)
}

func (s *SQLiteStore) UpdateActiveShoppingList(ctx context.Context, id int, list models.ShoppingList) error {
	return s.updateDoc(ctx, "active_shopping_list", id, list)
}

func (s *SQLiteStore) ArchiveActiveShoppingList(ctx context.Context, id int, history models.ShoppingHistory, next models.ShoppingList) error {
	h, err := encode(history)
	if err != nil {
		return err
	}
	a, err := encode(next)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET shopping_history = ?, active_shopping_list = ?, updated_at = ? WHERE id = ?`,
		string(h), string(a), now(), id)
	if err != nil {
		return fmt.Errorf("archive shopping list: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) updateDoc(ctx context.Context, column string, id int, doc any) error {
	b, err := encode(doc)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		string(b), now(), id)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}
