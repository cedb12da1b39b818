package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knigibg/bookstore/internal/domain/models"
	"github.com/knigibg/bookstore/internal/storage"
)

func seedBook(t *testing.T, stor *storage.MemStorage, book models.Book) int64 {
	t.Helper()
	id, err := stor.SaveBook(book)
	require.NoError(t, err)
	return id
}

func TestAddBookRoundTrip(t *testing.T) {
	s, _ := newTestServer()
	router := setupRouter(s)

	w := doJSON(router, http.MethodPost, "/add-book", `{
		"title": "The Go Programming Language",
		"author": "Donovan and Kernighan",
		"category": "Programming",
		"publisher": "Addison-Wesley",
		"imageUrl": "/img/gopl.jpg",
		"description": "The definitive guide",
		"city": "Sofia",
		"address": "12 Vitosha Blvd",
		"oldPrice": 59.90,
		"price": 45.50
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "book added successfully", resp["message"])
	assert.Equal(t, float64(1), resp["bookId"])

	w = doJSON(router, http.MethodGet, "/books/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	book := decodeBody(t, w)
	assert.Equal(t, "The Go Programming Language", book["Name"])
	assert.Equal(t, "Donovan and Kernighan", book["Author"])
	assert.Equal(t, "Programming", book["Category"])
	assert.Equal(t, "Addison-Wesley", book["Publisher"])
	assert.Equal(t, "/img/gopl.jpg", book["ImagePath"])
	assert.Equal(t, "The definitive guide", book["Description"])
	assert.Equal(t, "Sofia", book["City"])
	assert.Equal(t, 59.90, book["OldPrice"])
	assert.Equal(t, 45.50, book["Price"])
	assert.Equal(t, float64(0), book["VisitedCount"])
}

func TestAddBookRequiresTitleAndAuthor(t *testing.T) {
	s, _ := newTestServer()
	router := setupRouter(s)

	w := doJSON(router, http.MethodPost, "/add-book", `{"title":"No Author"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookInfoNotFound(t *testing.T) {
	s, _ := newTestServer()
	router := setupRouter(s)

	w := doJSON(router, http.MethodGet, "/books/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "book not found", decodeBody(t, w)["message"])
}

func TestLatestBooksLimitAndOrder(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		seedBook(t, stor, models.Book{
			Name:      fmt.Sprintf("Book %d", i),
			Author:    "A",
			DateAdded: base.AddDate(0, 0, i),
		})
	}

	w := doJSON(router, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	books := decodeList(t, w)
	require.Len(t, books, 6)
	assert.Equal(t, "Book 7", books[0]["Name"])
	assert.Equal(t, "Book 2", books[5]["Name"])
}

func TestBooksByCategoryAndPublisher(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)

	seedBook(t, stor, models.Book{Name: "One", Author: "A", Category: "Fantasy", Publisher: "Ciela"})
	seedBook(t, stor, models.Book{Name: "Two", Author: "B", Category: "Fantasy", Publisher: "Hermes"})
	seedBook(t, stor, models.Book{Name: "Three", Author: "C", Category: "History", Publisher: "Ciela"})

	w := doJSON(router, http.MethodGet, "/books/category/Fantasy", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = doJSON(router, http.MethodGet, "/books/publisher/Ciela", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = doJSON(router, http.MethodGet, "/books/category/Unknown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSearchBooks(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)

	seedBook(t, stor, models.Book{Name: "Algorithms", Author: "A", Price: 30, BookStore: "Helikon"})
	seedBook(t, stor, models.Book{Name: "Linear Algebra", Author: "B", Price: 20, BookStore: "Orange"})
	seedBook(t, stor, models.Book{Name: "Cooking", Author: "C", Price: 10, Description: "algae recipes", BookStore: "Helikon"})

	// substring match is case-sensitive
	w := doJSON(router, http.MethodGet, "/search-books?q=Alg", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = doJSON(router, http.MethodGet, "/search-books?q=alg", "")
	require.Equal(t, http.StatusOK, w.Code)
	books := decodeList(t, w)
	require.Len(t, books, 1)
	assert.Equal(t, "Cooking", books[0]["Name"])

	// "1" means any store
	w = doJSON(router, http.MethodGet, "/search-books?bookStore=1", "")
	assert.Len(t, decodeList(t, w), 3)

	w = doJSON(router, http.MethodGet, "/search-books?bookStore=Helikon", "")
	assert.Len(t, decodeList(t, w), 2)

	w = doJSON(router, http.MethodGet, "/search-books?sort=lowest_price", "")
	books = decodeList(t, w)
	require.Len(t, books, 3)
	for i := 1; i < len(books); i++ {
		assert.LessOrEqual(t, books[i-1]["Price"].(float64), books[i]["Price"].(float64))
	}
}

func TestSpecialBooks(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)

	seedBook(t, stor, models.Book{Name: "Small cut", Author: "A", OldPrice: 20, Price: 18})
	seedBook(t, stor, models.Book{Name: "Big cut", Author: "B", OldPrice: 50, Price: 25})

	w := doJSON(router, http.MethodGet, "/special-books", "")
	require.Equal(t, http.StatusOK, w.Code)
	books := decodeList(t, w)
	require.Len(t, books, 2)
	assert.Equal(t, "Big cut", books[0]["Name"])
}

func TestIncrementVisited(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)
	id := seedBook(t, stor, models.Book{Name: "Counted", Author: "A"})

	for i := 0; i < 3; i++ {
		w := doJSON(router, http.MethodPost, fmt.Sprintf("/increment-visited-count/%d", id), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	book, err := stor.GetBook(id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), book.VisitedCount)
}

func TestTopVisitedBooks(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)

	seedBook(t, stor, models.Book{Name: "Quiet", Author: "A"})
	popular := seedBook(t, stor, models.Book{Name: "Popular", Author: "B"})

	for i := 0; i < 5; i++ {
		require.NoError(t, stor.IncrementVisited(popular))
	}

	w := doJSON(router, http.MethodGet, "/top-visited-books", "")
	require.Equal(t, http.StatusOK, w.Code)
	books := decodeList(t, w)
	require.Len(t, books, 2)
	assert.Equal(t, "Popular", books[0]["Name"])
}

func TestUpdateBook(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)
	id := seedBook(t, stor, models.Book{Name: "Old Title", Author: "A", Price: 10})

	w := doJSON(router, http.MethodPut, fmt.Sprintf("/books/%d", id),
		`{"title":"New Title","author":"A","price":12.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "book updated successfully", decodeBody(t, w)["message"])

	book, err := stor.GetBook(id)
	require.NoError(t, err)
	assert.Equal(t, "New Title", book.Name)
	assert.Equal(t, 12.5, book.Price)
}

func TestUpdateBookNotFound(t *testing.T) {
	s, _ := newTestServer()
	router := setupRouter(s)

	w := doJSON(router, http.MethodPut, "/books/99", `{"title":"X","author":"Y"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBookMissingFields(t *testing.T) {
	s, stor := newTestServer()
	router := setupRouter(s)
	id := seedBook(t, stor, models.Book{Name: "Kept", Author: "A"})

	w := doJSON(router, http.MethodPut, fmt.Sprintf("/books/%d", id), `{"title":"No Author"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ID, title and author are required", decodeBody(t, w)["message"])
}
