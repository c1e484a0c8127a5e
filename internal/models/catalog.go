package models

import (
	"shoppingify/internal/lists"
	"shoppingify/internal/normalize"
)

// CatalogItem is an entry of a user's catalog. Note and Image are optional
// and omitted from JSON when empty.
type CatalogItem struct {
	Name  string `json:"name"`
	Note  string `json:"note,omitempty"`
	Image string `json:"image,omitempty"`
}

func (i CatalogItem) ItemName() string { return i.Name }

// Catalog groups every item a user knows about by category.
type Catalog = lists.List[CatalogItem]

// NewCatalogItem builds the stored form of a catalog item. Fields are only
// trimmed; the note is kept as typed and escaping is left to whoever renders it.
func NewCatalogItem(name, note, image string) CatalogItem {
	return CatalogItem{
		Name:  normalize.Text(name),
		Note:  normalize.Text(note),
		Image: normalize.Text(image),
	}
}
