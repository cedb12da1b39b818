package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knigibg/bookstore/internal/domain/models"
	storerrors "github.com/knigibg/bookstore/internal/storage/errors"
)

func TestSaveUserDuplicateEmail(t *testing.T) {
	ms := New()
	_, err := ms.SaveUser(models.User{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)

	_, err = ms.SaveUser(models.User{Email: "a@b.c", Password: "y"})
	assert.ErrorIs(t, err, storerrors.ErrUserExists)
}

func TestUpdateUserUnknown(t *testing.T) {
	ms := New()
	err := ms.UpdateUser(models.User{ID: 7, Email: "a@b.c"})
	assert.ErrorIs(t, err, storerrors.ErrUserNoExist)
}

func TestLatestBooksTiebreak(t *testing.T) {
	ms := New()
	when := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := ms.SaveBook(models.Book{Name: "Same day", Author: "A", DateAdded: when})
		require.NoError(t, err)
	}

	books, err := ms.LatestBooks(3)
	require.NoError(t, err)
	require.Len(t, books, 3)
	// equal dates fall back to newest id first
	assert.Equal(t, int64(3), books[0].ID)
	assert.Equal(t, int64(1), books[2].ID)
}

func TestSearchBooksNoFilterReturnsAll(t *testing.T) {
	ms := New()
	_, err := ms.SaveBook(models.Book{Name: "Z", Author: "A", Price: 5})
	require.NoError(t, err)
	_, err = ms.SaveBook(models.Book{Name: "A", Author: "B", Price: 1})
	require.NoError(t, err)

	books, err := ms.SearchBooks(models.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestSearchBooksUnrecognizedSortFallsBackToNewest(t *testing.T) {
	ms := New()
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := ms.SaveBook(models.Book{Name: "Old", Author: "A", DateAdded: old})
	require.NoError(t, err)
	_, err = ms.SaveBook(models.Book{Name: "New", Author: "B", DateAdded: old.AddDate(1, 0, 0)})
	require.NoError(t, err)

	books, err := ms.SearchBooks(models.SearchFilter{Sort: "bogus"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "New", books[0].Name)
}

func TestHighestRatedPrefersVotedBook(t *testing.T) {
	ms := New()
	voted, err := ms.SaveBook(models.Book{Name: "Voted", Author: "A"})
	require.NoError(t, err)
	_, err = ms.SaveBook(models.Book{Name: "Silent", Author: "B"})
	require.NoError(t, err)

	require.NoError(t, ms.SaveVote(models.Vote{UserID: 1, BookID: voted, Vote: 2}))

	best, err := ms.HighestRatedBook()
	require.NoError(t, err)
	assert.Equal(t, voted, best.ID)
	require.NotNil(t, best.AverageVote)
	assert.Equal(t, 2.0, *best.AverageVote)
}

func TestHighestRatedNoVotes(t *testing.T) {
	ms := New()
	_, err := ms.SaveBook(models.Book{Name: "Unrated", Author: "A"})
	require.NoError(t, err)

	best, err := ms.HighestRatedBook()
	require.NoError(t, err)
	assert.Equal(t, "Unrated", best.Name)
	assert.Nil(t, best.AverageVote)
}

func TestHighestRatedNoBooks(t *testing.T) {
	ms := New()
	_, err := ms.HighestRatedBook()
	assert.ErrorIs(t, err, storerrors.ErrBookNoExist)
}

func TestSaveVoteUpsert(t *testing.T) {
	ms := New()
	id, err := ms.SaveBook(models.Book{Name: "B", Author: "A"})
	require.NoError(t, err)

	require.NoError(t, ms.SaveVote(models.Vote{UserID: 1, BookID: id, Vote: 1}))
	require.NoError(t, ms.SaveVote(models.Vote{UserID: 1, BookID: id, Vote: 4}))

	best, err := ms.HighestRatedBook()
	require.NoError(t, err)
	require.NotNil(t, best.AverageVote)
	assert.Equal(t, 4.0, *best.AverageVote)
}

func TestCartKeepsDuplicateRows(t *testing.T) {
	ms := New()
	id, err := ms.SaveBook(models.Book{Name: "B", Author: "A"})
	require.NoError(t, err)

	require.NoError(t, ms.AddToCart(1, id))
	require.NoError(t, ms.AddToCart(1, id))

	books, err := ms.CartBooks(1)
	require.NoError(t, err)
	assert.Len(t, books, 2)

	require.NoError(t, ms.RemoveFromCart(1, id))
	books, err = ms.CartBooks(1)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestIncrementVisitedUnknownID(t *testing.T) {
	ms := New()
	assert.NoError(t, ms.IncrementVisited(404))
}

func TestGetOrdersJoinsBuyerName(t *testing.T) {
	ms := New()
	uid, err := ms.SaveUser(models.User{FirstName: "Ivan", LastName: "Petrov", Email: "i@p.bg", Password: "x"})
	require.NoError(t, err)

	_, err = ms.SaveOrder(models.Order{UserID: uid, Books: `[{"bookId":1,"quantity":1}]`, TotalPrice: 9.99})
	require.NoError(t, err)
	// an order from a user the join cannot resolve is dropped, like the SQL join
	_, err = ms.SaveOrder(models.Order{UserID: 777, Books: `[]`, TotalPrice: 1})
	require.NoError(t, err)

	orders, err := ms.GetOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Ivan Petrov", orders[0].Name)
	assert.Equal(t, 9.99, orders[0].TotalPrice)
}
