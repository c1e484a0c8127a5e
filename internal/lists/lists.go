// Package lists implements the category → items structure shared by the
// catalog and the shopping lists.
//
// A List never holds an empty category and never holds two categories, or two
// items inside one category, whose names are equal under normalize.Key.
// Entries are only ever appended; the helpers never reorder what is already
// there.
package lists

import (
	"encoding/json"
	"slices"

	"shoppingify/internal/normalize"
)

// Item is anything stored inside a category.
type Item interface {
	ItemName() string
}

// Category is a named group of items.
type Category[T Item] struct {
	Category string `json:"category"`
	Items    []T    `json:"items"`
}

// List is an ordered sequence of categories.
type List[T Item] []Category[T]

// Contains reports whether category holds an item called name.
func (l List[T]) Contains(category, name string) bool {
	_, ok := l.Find(category, name)
	return ok
}

// Find returns a copy of the item called name inside category.
func (l List[T]) Find(category, name string) (T, bool) {
	var zero T
	ci := l.categoryIndex(category)
	if ci == -1 {
		return zero, false
	}
	ii := l[ci].itemIndex(name)
	if ii == -1 {
		return zero, false
	}
	return l[ci].Items[ii], true
}

// Insert appends item to category, creating the category at the end of the
// list when it does not exist yet. It returns false and leaves the list
// untouched when the item is already there.
//
// item must already be in stored form (trimmed name and fields).
func (l *List[T]) Insert(category string, item T) bool {
	if l.Contains(category, item.ItemName()) {
		return false
	}
	l.findOrCreate(category, item)
	return true
}

// Upsert inserts item like Insert does, or, when an item with the same name
// is already in the category, calls update on the stored record instead.
func (l *List[T]) Upsert(category string, item T, update func(existing *T)) {
	stored, created := l.findOrCreate(category, item)
	if !created && update != nil {
		update(stored)
	}
}

// Delete removes the item called name from category. A category left without
// items is removed in the same call. It returns false when there was nothing
// to remove.
func (l *List[T]) Delete(category, name string) bool {
	ci := l.categoryIndex(category)
	if ci == -1 {
		return false
	}
	c := &(*l)[ci]
	ii := c.itemIndex(name)
	if ii == -1 {
		return false
	}

	if len(c.Items) == 1 {
		*l = slices.Delete(*l, ci, ci+1)
	} else {
		c.Items = slices.Delete(c.Items, ii, ii+1)
	}
	return true
}

// Len returns the number of items across all categories.
func (l List[T]) Len() int {
	n := 0
	for _, c := range l {
		n += len(c.Items)
	}
	return n
}

// MarshalJSON encodes a nil list as [] rather than null.
func (l List[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Category[T](l))
}

func (l *List[T]) findOrCreate(category string, item T) (*T, bool) {
	ci := l.categoryIndex(category)
	if ci == -1 {
		*l = append(*l, Category[T]{Category: normalize.Text(category)})
		ci = len(*l) - 1
	}

	c := &(*l)[ci]
	if ii := c.itemIndex(item.ItemName()); ii != -1 {
		return &c.Items[ii], false
	}
	c.Items = append(c.Items, item)
	return &c.Items[len(c.Items)-1], true
}

func (l List[T]) categoryIndex(category string) int {
	key := normalize.Key(category)
	return slices.IndexFunc(l, func(c Category[T]) bool {
		return normalize.Key(c.Category) == key
	})
}

func (c Category[T]) itemIndex(name string) int {
	key := normalize.Key(name)
	return slices.IndexFunc(c.Items, func(item T) bool {
		return normalize.Key(item.ItemName()) == key
	})
}
