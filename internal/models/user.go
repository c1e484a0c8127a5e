package models

import (
	"time"
)

// User owns one catalog, one active shopping list and one history.
type User struct {
	ID                 int             `json:"id" db:"id"`
	Email              string          `json:"email" db:"email"`
	PasswordHash       string          `json:"-" db:"password_hash"`
	Items              Catalog         `json:"items" db:"items"`
	ActiveShoppingList ShoppingList    `json:"activeShoppingList" db:"active_shopping_list"`
	ShoppingHistory    ShoppingHistory `json:"shoppingHistory" db:"shopping_history"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// NewUser is what registration hands to the store.
type NewUser struct {
	Email              string
	PasswordHash       string
	Items              Catalog
	ActiveShoppingList ShoppingList
}

// Credentials are the register/login fields after validation. Email is
// already normalized.
type Credentials struct {
	Email    string
	Password string
}

type AddItemRequest struct {
	Category string
	Name     string
	Note     string
	Image    string
}

type ItemRequest struct {
	Category string
	Name     string
}

type UpdateItemRequest struct {
	Category  string
	Name      string
	Amount    int
	Completed bool
}
