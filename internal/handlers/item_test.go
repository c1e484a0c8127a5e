package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppingify/internal/models"
	"shoppingify/internal/websocket"
)

func testCatalog() models.Catalog {
	return models.Catalog{
		{Category: "Category 1", Items: []models.CatalogItem{
			{Name: "Item 1", Note: "Note 1", Image: "https://image1.com"},
		}},
	}
}

func TestGetItems(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")
	s.repo.setItems(id, testCatalog())

	rec := s.do(t, http.MethodGet, "/api/items", id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"data":{"items":[
		{"category":"Category 1","items":[{"name":"Item 1","note":"Note 1","image":"https://image1.com"}]}
	]}}`, rec.Body.String())
}

func TestAddItem(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")
	s.repo.setItems(id, testCatalog())

	rec := s.do(t, http.MethodPost, "/api/items/add", id, `{"category":" Category 2 ","name":" Item 2 "}`)
	assertOK(t, rec)

	items := s.repo.user(id).Items
	require.Len(t, items, 2)
	assert.Equal(t, "Category 2", items[1].Category)
	assert.Equal(t, []models.CatalogItem{{Name: "Item 2"}}, items[1].Items)
	assert.Equal(t, []string{websocket.MessageTypeItemsUpdate}, s.notifier.types())
}

func TestAddItemToExistingCategory(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")
	s.repo.setItems(id, testCatalog())

	rec := s.do(t, http.MethodPost, "/api/items/add", id,
		`{"category":"category 1","name":"Item 2","note":"<b>fresh</b> only","image":7}`)
	assertOK(t, rec)

	items := s.repo.user(id).Items
	require.Len(t, items, 1)
	assert.Equal(t, "Category 1", items[0].Category)
	require.Len(t, items[0].Items, 2)
	assert.Equal(t, models.CatalogItem{Name: "Item 2", Note: "<b>fresh</b> only"}, items[0].Items[1])
}

func TestAddItemDuplicate(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")
	s.repo.setItems(id, testCatalog())

	rec := s.do(t, http.MethodPost, "/api/items/add", id, `{"category":" CATEGORY 1","name":"item 1 "}`)
	assertError(t, rec, http.StatusConflict, "Item already exists")
	assert.Zero(t, s.repo.saves)
	assert.Empty(t, s.notifier.types())
}

func TestAddItemValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing category", `{"name":"Item"}`, "Category is not valid"},
		{"blank category", `{"category":"  ","name":"Item"}`, "Category is not valid"},
		{"category not a string", `{"category":1,"name":"Item"}`, "Category is not valid"},
		{"both missing", `{}`, "Category is not valid"},
		{"missing name", `{"category":"Category"}`, "Name is not valid"},
		{"blank name", `{"category":"Category","name":" "}`, "Name is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			id := s.repo.addUser(t, "test@test.com", "Password")

			rec := s.do(t, http.MethodPost, "/api/items/add", id, tt.body)
			assertError(t, rec, http.StatusBadRequest, tt.want)
			assert.Zero(t, s.repo.saves)
		})
	}
}

func TestAddItemSaveFailure(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")
	s.repo.saveErr = errDB

	rec := s.do(t, http.MethodPost, "/api/items/add", id, `{"category":"Category","name":"Item"}`)
	assertError(t, rec, http.StatusInternalServerError, "Internal server error")
	assert.Empty(t, s.notifier.types())
}

func TestDeleteItem(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")
	s.repo.setItems(id, testCatalog())

	rec := s.do(t, http.MethodPost, "/api/items/delete", id, `{"category":"category 1","name":"ITEM 1"}`)
	assertOK(t, rec)

	assert.Empty(t, s.repo.user(id).Items)
	assert.Equal(t, []string{websocket.MessageTypeItemsUpdate}, s.notifier.types())
}

func TestDeleteItemMissing(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")
	s.repo.setItems(id, testCatalog())

	rec := s.do(t, http.MethodPost, "/api/items/delete", id, `{"category":"Category 1","name":"Item 2"}`)
	assertError(t, rec, http.StatusNotFound, "Item is not in the items list")
	assert.Zero(t, s.repo.saves)
	assert.Len(t, s.repo.user(id).Items, 1)
}

func TestDeleteItemValidation(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")

	rec := s.do(t, http.MethodPost, "/api/items/delete", id, `{"category":"Category 1","name":false}`)
	assertError(t, rec, http.StatusBadRequest, "Name is not valid")
}
