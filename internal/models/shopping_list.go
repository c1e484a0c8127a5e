package models

import (
	"encoding/json"
	"fmt"
	"time"

	"shoppingify/internal/lists"
	"shoppingify/internal/normalize"
)

type ShoppingListItem struct {
	Name      string `json:"name"`
	Amount    int    `json:"amount"`
	Completed bool   `json:"completed"`
}

func (i ShoppingListItem) ItemName() string { return i.Name }

// ShoppingList is the list a user is currently building or shopping with.
type ShoppingList struct {
	Name string                       `json:"name"`
	List lists.List[ShoppingListItem] `json:"list"`
}

// NewShoppingList returns an empty list named after the creation time.
func NewShoppingList(now time.Time) ShoppingList {
	return ShoppingList{
		Name: fmt.Sprintf("default--%d", now.UnixMilli()),
		List: lists.List[ShoppingListItem]{},
	}
}

// UpdateItem sets amount and completed on the item, adding the item (and its
// category) when the list does not have it yet.
func (s *ShoppingList) UpdateItem(category, name string, amount int, completed bool) {
	item := ShoppingListItem{
		Name:      normalize.Text(name),
		Amount:    amount,
		Completed: completed,
	}
	s.List.Upsert(category, item, func(existing *ShoppingListItem) {
		existing.Amount = amount
		existing.Completed = completed
	})
}

// DeleteItem removes the item, dropping its category when it becomes empty.
func (s *ShoppingList) DeleteItem(category, name string) bool {
	return s.List.Delete(category, name)
}

func (s *ShoppingList) Rename(name string) {
	s.Name = normalize.Text(name)
}

// Archive closes the list with the given state. It returns the history entry
// and the empty list that replaces it.
func (s ShoppingList) Archive(state ListState, now time.Time) (FinishedShoppingList, ShoppingList) {
	finished := FinishedShoppingList{
		ShoppingList: s,
		State:        state,
		Date:         now.UTC(),
	}
	return finished, NewShoppingList(now)
}

type ListState string

const (
	ListCompleted ListState = "completed"
	ListCancelled ListState = "cancelled"
)

// ParseListState accepts exactly "completed" or "cancelled".
func ParseListState(s string) (ListState, bool) {
	switch ListState(s) {
	case ListCompleted, ListCancelled:
		return ListState(s), true
	}
	return "", false
}

// FinishedShoppingList is a shopping list that was completed or cancelled.
type FinishedShoppingList struct {
	ShoppingList
	State ListState `json:"state"`
	Date  time.Time `json:"date"`
}

// ShoppingHistory is ordered oldest first.
type ShoppingHistory []FinishedShoppingList

func (h ShoppingHistory) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]FinishedShoppingList(h))
}
