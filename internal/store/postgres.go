package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"shoppingify/internal/database"
	"shoppingify/internal/models"
)

const pgUniqueViolation = "23505"

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByID returns nil, nil when no user has that id.
func (s *PostgresStore) FindByID(ctx context.Context, id int) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// FindByEmail expects an already normalized email.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Create(ctx context.Context, nu models.NewUser) (*models.User, error) {
	items, active, err := newUserDocs(nu)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, items, active_shopping_list, shopping_history)
		 VALUES ($1, $2, $3, $4, '[]')
		 RETURNING `+userCols,
		nu.Email, nu.PasswordHash, string(items), string(active))

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) UpdateItems(ctx context.Context, id int, items models.Catalog) error {
	return s.updateDoc(ctx, "items", id, items)
}

func (s *PostgresStore) UpdateActiveShoppingList(ctx context.Context, id int, list models.ShoppingList) error {
	return s.updateDoc(ctx, "active_shopping_list", id, list)
}

// ArchiveActiveShoppingList stores the new history and the list replacing
// the archived one in a single statement.
func (s *PostgresStore) ArchiveActiveShoppingList(ctx context.Context, id int, history models.ShoppingHistory, next models.ShoppingList) error {
	h, err := encode(history)
	if err != nil {
		return err
	}
	a, err := encode(next)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET shopping_history = $1, active_shopping_list = $2, updated_at = $3 WHERE id = $4`,
		string(h), string(a), now(), id)
	if err != nil {
		return fmt.Errorf("archive shopping list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// column is one of the fixed JSON column names above, never user input.
func (s *PostgresStore) updateDoc(ctx context.Context, column string, id int, doc any) error {
	b, err := encode(doc)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET `+column+` = $1, updated_at = $2 WHERE id = $3`,
		string(b), now(), id)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
