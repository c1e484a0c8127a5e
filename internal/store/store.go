// Package store persists users and their lists. Both backends keep the
// catalog, the active shopping list and the history as JSON documents on the
// user row, so every request reads and writes whole snapshots.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shoppingify/internal/models"
)

var (
	// ErrEmailTaken is returned by Create when the email is already registered.
	ErrEmailTaken = errors.New("email already used")

	// ErrUserNotFound is returned by updates that matched no row.
	ErrUserNotFound = errors.New("user not found")
)

const userCols = `id, email, password_hash, items, active_shopping_list, shopping_history, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u                      models.User
		items, active, history []byte
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &items, &active, &history, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &u.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(active, &u.ActiveShoppingList); err != nil {
		return nil, fmt.Errorf("decode active shopping list: %w", err)
	}
	if err := json.Unmarshal(history, &u.ShoppingHistory); err != nil {
		return nil, fmt.Errorf("decode shopping history: %w", err)
	}
	return &u, nil
}

func encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}

// newUserDocs encodes the JSON columns of a user being created.
func newUserDocs(nu models.NewUser) (items, active []byte, err error) {
	if items, err = encode(nu.Items); err != nil {
		return nil, nil, err
	}
	if active, err = encode(nu.ActiveShoppingList); err != nil {
		return nil, nil, err
	}
	return items, active, nil
}

func now() time.Time {
	return time.Now().UTC()
}
