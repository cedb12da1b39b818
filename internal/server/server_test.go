package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/knigibg/bookstore/internal/auth"
	"github.com/knigibg/bookstore/internal/config"
	"github.com/knigibg/bookstore/internal/storage"
)

func newTestServer() (*Server, *storage.MemStorage) {
	gin.SetMode(gin.TestMode)
	stor := storage.New()
	s := New(config.Config{Addr: ":5000"}, stor, auth.Plain{})
	return s, stor
}

func setupRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/register", s.register)
	r.POST("/login", s.login)
	r.POST("/api/updateUser", s.updateUser)
	r.GET("/api/profile", s.JWTAuthMiddleware(), s.profile)

	r.GET("/books", s.latestBooks)
	r.GET("/books/:id", s.bookInfo)
	r.GET("/books/:id/:name", s.booksByGroup)
	r.PUT("/books/:id", s.updateBook)
	r.POST("/add-book", s.addBook)
	r.GET("/search-books", s.searchBooks)
	r.GET("/special-books", s.specialBooks)
	r.GET("/top-visited-books", s.topVisitedBooks)
	r.POST("/increment-visited-count/:bookId", s.incrementVisited)

	r.POST("/cart", s.addToCart)
	r.GET("/cart/:userId", s.cartBooks)
	r.POST("/cart/remove", s.removeFromCart)
	r.POST("/cart/clear", s.clearCart)

	r.POST("/favourites", s.addToFavourites)
	r.GET("/favourites/:userId", s.favouriteBooks)
	r.GET("/favourites/:userId/:checkUser/:checkBook", s.checkFavourite)
	r.POST("/favourites/remove", s.removeFromFavourites)
	r.POST("/favourites/clear", s.clearFavourites)

	r.POST("/vote", s.vote)
	r.GET("/highest-rated-book", s.highestRatedBook)
	r.POST("/order", s.placeOrder)
	r.GET("/orders", s.listOrders)
	r.GET("/exchange-rates", s.exchangeRates)

	return r
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
