package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/knigibg/bookstore/internal/domain/models"
	"github.com/knigibg/bookstore/internal/logger"
	storerrors "github.com/knigibg/bookstore/internal/storage/errors"
)

type pair struct {
	userID int64
	bookID int64
}

// MemStorage is the in-memory fallback used when the database is unreachable
// and the backing store of the handler tests. It reproduces the database
// semantics, including the lack of dedupe on cart and favourite rows.
type MemStorage struct {
	mu          sync.RWMutex
	users       map[int64]models.User
	books       map[int64]models.Book
	cart        []pair
	favourites  []pair
	votes       []models.Vote
	orders      []models.Order
	nextUserID  int64
	nextBookID  int64
	nextOrderID int64
}

func New() *MemStorage {
	return &MemStorage{
		users: make(map[int64]models.User),
		books: make(map[int64]models.Book),
	}
}

func (ms *MemStorage) SaveUser(user models.User) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, u := range ms.users {
		if u.Email == user.Email {
			return 0, storerrors.ErrUserExists
		}
	}
	ms.nextUserID++
	user.ID = ms.nextUserID
	now := time.Now()
	user.RegisterDate = now
	user.LastActivity = now
	ms.users[user.ID] = user
	return user.ID, nil
}

func (ms *MemStorage) GetUser(id int64) (models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	user, ok := ms.users[id]
	if !ok {
		return models.User{}, storerrors.ErrUserNoExist
	}
	return user, nil
}

func (ms *MemStorage) GetUserByEmail(email string) (models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, user := range ms.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storerrors.ErrUserNoExist
}

func (ms *MemStorage) UpdateUser(user models.User) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	stored, ok := ms.users[user.ID]
	if !ok {
		return storerrors.ErrUserNoExist
	}
	user.RegisterDate = stored.RegisterDate
	user.LastActivity = time.Now()
	ms.users[user.ID] = user
	return nil
}

func (ms *MemStorage) SaveBook(book models.Book) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.nextBookID++
	book.ID = ms.nextBookID
	if book.DateAdded.IsZero() {
		book.DateAdded = time.Now()
	}
	ms.books[book.ID] = book
	return book.ID, nil
}

func (ms *MemStorage) UpdateBook(book models.Book) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	stored, ok := ms.books[book.ID]
	if !ok {
		return storerrors.ErrBookNoExist
	}
	book.VisitedCount = stored.VisitedCount
	book.DateAdded = stored.DateAdded
	book.BookStore = stored.BookStore
	ms.books[book.ID] = book
	return nil
}

func (ms *MemStorage) GetBook(id int64) (models.Book, error) {
	log := logger.Get()
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	book, ok := ms.books[id]
	if !ok {
		log.Debug().Int64("id", id).Msg("book not found")
		return models.Book{}, storerrors.ErrBookNoExist
	}
	return book, nil
}

func (ms *MemStorage) LatestBooks(limit int) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	books := ms.allBooks()
	sort.Slice(books, func(i, j int) bool {
		if !books[i].DateAdded.Equal(books[j].DateAdded) {
			return books[i].DateAdded.After(books[j].DateAdded)
		}
		return books[i].ID > books[j].ID
	})
	return clip(books, limit), nil
}

func (ms *MemStorage) BooksByCategory(category string) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var books []models.Book
	for _, book := range ms.books {
		if book.Category == category {
			books = append(books, book)
		}
	}
	return books, nil
}

func (ms *MemStorage) BooksByPublisher(publisher string) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var books []models.Book
	for _, book := range ms.books {
		if book.Publisher == publisher {
			books = append(books, book)
		}
	}
	return books, nil
}

func (ms *MemStorage) SearchBooks(filter models.SearchFilter) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var books []models.Book
	for _, book := range ms.books {
		if filter.Query != "" &&
			!strings.Contains(book.Name, filter.Query) &&
			!strings.Contains(book.Description, filter.Query) {
			continue
		}
		if filter.BookStore != "" && filter.BookStore != "1" && book.BookStore != filter.BookStore {
			continue
		}
		if filter.City != "" && filter.City != "1" && book.City != filter.City {
			continue
		}
		books = append(books, book)
	}

	if filter.Sort != "" {
		sort.Slice(books, func(i, j int) bool {
			switch filter.Sort {
			case "highest_price":
				return books[i].Price > books[j].Price
			case "lowest_price":
				return books[i].Price < books[j].Price
			case "name":
				return books[i].Name < books[j].Name
			default: // newest, and any unrecognized key
				return books[i].DateAdded.After(books[j].DateAdded)
			}
		})
	}
	return books, nil
}

func (ms *MemStorage) SpecialBooks(limit int) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	books := ms.allBooks()
	sort.Slice(books, func(i, j int) bool {
		return books[i].OldPrice-books[i].Price > books[j].OldPrice-books[j].Price
	})
	return clip(books, limit), nil
}

func (ms *MemStorage) TopVisitedBooks(limit int) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	books := ms.allBooks()
	sort.Slice(books, func(i, j int) bool {
		return books[i].VisitedCount > books[j].VisitedCount
	})
	return clip(books, limit), nil
}

// IncrementVisited is a no-op for an unknown id, matching the database
// UPDATE, which succeeds with zero rows affected.
func (ms *MemStorage) IncrementVisited(id int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	book, ok := ms.books[id]
	if !ok {
		return nil
	}
	book.VisitedCount++
	ms.books[id] = book
	return nil
}

// AddToCart appends unconditionally: repeated adds stack duplicate rows.
func (ms *MemStorage) AddToCart(userID, bookID int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.cart = append(ms.cart, pair{userID: userID, bookID: bookID})
	return nil
}

func (ms *MemStorage) CartBooks(userID int64) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.joinBooks(ms.cart, userID), nil
}

func (ms *MemStorage) RemoveFromCart(userID, bookID int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.cart = dropPairs(ms.cart, userID, bookID)
	return nil
}

func (ms *MemStorage) ClearCart(userID int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.cart = dropUser(ms.cart, userID)
	return nil
}

func (ms *MemStorage) AddToFavourites(userID, bookID int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.favourites = append(ms.favourites, pair{userID: userID, bookID: bookID})
	return nil
}

func (ms *MemStorage) FavouriteBooks(userID int64) ([]models.Book, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.joinBooks(ms.favourites, userID), nil
}

func (ms *MemStorage) IsFavourite(userID, bookID int64) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, p := range ms.favourites {
		if p.userID == userID && p.bookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

func (ms *MemStorage) RemoveFromFavourites(userID, bookID int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.favourites = dropPairs(ms.favourites, userID, bookID)
	return nil
}

func (ms *MemStorage) ClearFavourites(userID int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.favourites = dropUser(ms.favourites, userID)
	return nil
}

func (ms *MemStorage) SaveVote(vote models.Vote) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i, v := range ms.votes {
		if v.UserID == vote.UserID && v.BookID == vote.BookID {
			ms.votes[i].Vote = vote.Vote
			return nil
		}
	}
	ms.votes = append(ms.votes, vote)
	return nil
}

func (ms *MemStorage) HighestRatedBook() (models.RatedBook, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if len(ms.books) == 0 {
		return models.RatedBook{}, storerrors.ErrBookNoExist
	}

	var best models.RatedBook
	var bestAvg *float64
	for _, book := range ms.books {
		var sum, count float64
		for _, v := range ms.votes {
			if v.BookID == book.ID {
				sum += float64(v.Vote)
				count++
			}
		}
		var avg *float64
		if count > 0 {
			a := sum / count
			avg = &a
		}
		better := best.ID == 0 ||
			(avg != nil && bestAvg == nil) ||
			(avg != nil && bestAvg != nil && *avg > *bestAvg)
		if better {
			best = models.RatedBook{
				ID:          book.ID,
				Name:        book.Name,
				ImagePath:   book.ImagePath,
				Description: book.Description,
				AverageVote: avg,
			}
			bestAvg = avg
		}
	}
	return best, nil
}

func (ms *MemStorage) SaveOrder(order models.Order) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.nextOrderID++
	order.ID = ms.nextOrderID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	ms.orders = append(ms.orders, order)
	return order.ID, nil
}

// GetOrders returns every user's orders with the buyer name joined in; the
// listing is deliberately not scoped to a single user.
func (ms *MemStorage) GetOrders() ([]models.Order, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	orders := make([]models.Order, 0, len(ms.orders))
	for _, order := range ms.orders {
		if user, ok := ms.users[order.UserID]; ok {
			order.Name = user.FirstName + " " + user.LastName
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (ms *MemStorage) allBooks() []models.Book {
	books := make([]models.Book, 0, len(ms.books))
	for _, book := range ms.books {
		books = append(books, book)
	}
	return books
}

// joinBooks resolves join rows to full book records, one per row, so
// duplicate memberships surface as duplicate entries like the SQL join does.
func (ms *MemStorage) joinBooks(pairs []pair, userID int64) []models.Book {
	var books []models.Book
	for _, p := range pairs {
		if p.userID != userID {
			continue
		}
		if book, ok := ms.books[p.bookID]; ok {
			books = append(books, book)
		}
	}
	return books
}

func dropPairs(pairs []pair, userID, bookID int64) []pair {
	out := pairs[:0]
	for _, p := range pairs {
		if p.userID == userID && p.bookID == bookID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func dropUser(pairs []pair, userID int64) []pair {
	out := pairs[:0]
	for _, p := range pairs {
		if p.userID == userID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func clip(books []models.Book, limit int) []models.Book {
	if limit > 0 && len(books) > limit {
		return books[:limit]
	}
	return books
}
