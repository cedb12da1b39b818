package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/knigibg/bookstore/internal/domain/consts"
	"github.com/knigibg/bookstore/internal/domain/models"
	"github.com/knigibg/bookstore/internal/logger"
	storerrors "github.com/knigibg/bookstore/internal/storage/errors"
)

const bookColumns = `id, name, author, category, publisher, image_path, description, city, address, book_store, old_price, price, visited_count, date_added`

type DBStorage struct {
	pool *pgxpool.Pool
}

func NewDB(ctx context.Context, addr string) (*DBStorage, error) {
	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, err
	}
	config.MaxConns = 20
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	return &DBStorage{pool: pool}, nil
}

func (dbs *DBStorage) SaveUser(user models.User) (int64, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var id int64
	err := dbs.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, middle_name, email, password, address, city, telephone, user_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		user.FirstName, user.LastName, user.MiddleName, user.Email, user.Password,
		user.Address, user.City, user.Telephone, user.UserType).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, storerrors.ErrUserExists
		}
		log.Error().Err(err).Msg("failed to insert user")
		return 0, err
	}
	return id, nil
}

func (dbs *DBStorage) GetUser(id int64) (models.User, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, middle_name, email, password, address, city, telephone, register_date, last_activity, user_type
		 FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storerrors.ErrUserNoExist
		}
		log.Error().Err(err).Msg("failed to scan user")
		return models.User{}, err
	}
	return user, nil
}

func (dbs *DBStorage) GetUserByEmail(email string) (models.User, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, middle_name, email, password, address, city, telephone, register_date, last_activity, user_type
		 FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storerrors.ErrUserNoExist
		}
		log.Error().Err(err).Msg("failed to scan user")
		return models.User{}, err
	}
	return user, nil
}

func (dbs *DBStorage) UpdateUser(user models.User) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.pool.Exec(ctx,
		`UPDATE users SET first_name = $1, middle_name = $2, last_name = $3, address = $4, telephone = $5, password = $6, last_activity = now()
		 WHERE email = $7`,
		user.FirstName, user.MiddleName, user.LastName, user.Address, user.Telephone, user.Password, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to update user")
		return err
	}
	if res.RowsAffected() == 0 {
		return storerrors.ErrUserNoExist
	}
	return nil
}

func (dbs *DBStorage) SaveBook(book models.Book) (int64, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var id int64
	err := dbs.pool.QueryRow(ctx,
		`INSERT INTO books (name, author, category, publisher, image_path, description, city, address, book_store, old_price, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		book.Name, book.Author, book.Category, book.Publisher, book.ImagePath,
		book.Description, book.City, book.Address, book.BookStore, book.OldPrice, book.Price).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert book")
		return 0, err
	}
	return id, nil
}

func (dbs *DBStorage) UpdateBook(book models.Book) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.pool.Exec(ctx,
		`UPDATE books SET name = $1, author = $2, category = $3, publisher = $4, image_path = $5,
		        description = $6, city = $7, address = $8, old_price = $9, price = $10
		 WHERE id = $11`,
		book.Name, book.Author, book.Category, book.Publisher, book.ImagePath,
		book.Description, book.City, book.Address, book.OldPrice, book.Price, book.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to update book")
		return err
	}
	if res.RowsAffected() == 0 {
		return storerrors.ErrBookNoExist
	}
	return nil
}

func (dbs *DBStorage) GetBook(id int64) (models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, storerrors.ErrBookNoExist
		}
		log.Error().Err(err).Msg("failed to scan book")
		return models.Book{}, err
	}
	return book, nil
}

func (dbs *DBStorage) LatestBooks(limit int) ([]models.Book, error) {
	return dbs.queryBooks(`SELECT `+bookColumns+` FROM books ORDER BY date_added DESC, id DESC LIMIT $1`, limit)
}

func (dbs *DBStorage) BooksByCategory(category string) ([]models.Book, error) {
	return dbs.queryBooks(`SELECT `+bookColumns+` FROM books WHERE category = $1`, category)
}

func (dbs *DBStorage) BooksByPublisher(publisher string) ([]models.Book, error) {
	return dbs.queryBooks(`SELECT `+bookColumns+` FROM books WHERE publisher = $1`, publisher)
}

// SearchBooks matches the query as a case-sensitive substring of name or
// description. "1" is the storefront's "any" sentinel for the equality
// filters; an unrecognized sort key falls back to newest, no key at all
// keeps the storage order.
func (dbs *DBStorage) SearchBooks(filter models.SearchFilter) ([]models.Book, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(name LIKE $%d OR description LIKE $%d)", argPos, argPos+1))
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
		argPos += 2
	}
	if filter.BookStore != "" && filter.BookStore != "1" {
		conditions = append(conditions, fmt.Sprintf("book_store = $%d", argPos))
		args = append(args, filter.BookStore)
		argPos++
	}
	if filter.City != "" && filter.City != "1" {
		conditions = append(conditions, fmt.Sprintf("city = $%d", argPos))
		args = append(args, filter.City)
		argPos++
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	if filter.Sort != "" {
		switch filter.Sort {
		case "highest_price":
			query += " ORDER BY price DESC"
		case "lowest_price":
			query += " ORDER BY price ASC"
		case "name":
			query += " ORDER BY name ASC"
		default:
			query += " ORDER BY date_added DESC"
		}
	}

	return dbs.queryBooks(query, args...)
}

func (dbs *DBStorage) SpecialBooks(limit int) ([]models.Book, error) {
	return dbs.queryBooks(`SELECT `+bookColumns+` FROM books ORDER BY (old_price - price) DESC LIMIT $1`, limit)
}

func (dbs *DBStorage) TopVisitedBooks(limit int) ([]models.Book, error) {
	return dbs.queryBooks(`SELECT `+bookColumns+` FROM books ORDER BY visited_count DESC LIMIT $1`, limit)
}

func (dbs *DBStorage) IncrementVisited(id int64) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	_, err := dbs.pool.Exec(ctx, `UPDATE books SET visited_count = visited_count + 1 WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to increment visited count")
		return err
	}
	return nil
}

// Cart and favourite rows are inserted unconditionally. Duplicate
// memberships stack, and removal deletes every row of the pair at once.

func (dbs *DBStorage) AddToCart(userID, bookID int64) error {
	return dbs.insertPair("books_in_cart", userID, bookID)
}

func (dbs *DBStorage) CartBooks(userID int64) ([]models.Book, error) {
	return dbs.queryBooks(`SELECT `+prefixedBookColumns("b")+`
		FROM books_in_cart bic JOIN books b ON bic.book_id = b.id
		WHERE bic.user_id = $1`, userID)
}

func (dbs *DBStorage) RemoveFromCart(userID, bookID int64) error {
	return dbs.deletePairs("books_in_cart", userID, bookID)
}

func (dbs *DBStorage) ClearCart(userID int64) error {
	return dbs.clearPairs("books_in_cart", userID)
}

func (dbs *DBStorage) AddToFavourites(userID, bookID int64) error {
	return dbs.insertPair("books_in_favourites", userID, bookID)
}

func (dbs *DBStorage) FavouriteBooks(userID int64) ([]models.Book, error) {
	return dbs.queryBooks(`SELECT `+prefixedBookColumns("b")+`
		FROM books_in_favourites bif JOIN books b ON bif.book_id = b.id
		WHERE bif.user_id = $1`, userID)
}

func (dbs *DBStorage) IsFavourite(userID, bookID int64) (bool, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var one int
	err := dbs.pool.QueryRow(ctx,
		`SELECT 1 FROM books_in_favourites WHERE user_id = $1 AND book_id = $2 LIMIT 1`,
		userID, bookID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		log.Error().Err(err).Msg("failed to check favourite")
		return false, err
	}
	return true, nil
}

func (dbs *DBStorage) RemoveFromFavourites(userID, bookID int64) error {
	return dbs.deletePairs("books_in_favourites", userID, bookID)
}

func (dbs *DBStorage) ClearFavourites(userID int64) error {
	return dbs.clearPairs("books_in_favourites", userID)
}

// SaveVote upserts by lookup; the uniqueness of (user, book) is enforced
// here, not by a constraint.
func (dbs *DBStorage) SaveVote(vote models.Vote) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var existing int
	err := dbs.pool.QueryRow(ctx,
		`SELECT vote FROM votes WHERE user_id = $1 AND book_id = $2`,
		vote.UserID, vote.BookID).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_, err = dbs.pool.Exec(ctx,
				`INSERT INTO votes (user_id, book_id, vote) VALUES ($1, $2, $3)`,
				vote.UserID, vote.BookID, vote.Vote)
			if err != nil {
				log.Error().Err(err).Msg("failed to insert vote")
			}
			return err
		}
		log.Error().Err(err).Msg("failed to check existing vote")
		return err
	}

	_, err = dbs.pool.Exec(ctx,
		`UPDATE votes SET vote = $1 WHERE user_id = $2 AND book_id = $3`,
		vote.Vote, vote.UserID, vote.BookID)
	if err != nil {
		log.Error().Err(err).Msg("failed to update vote")
	}
	return err
}

func (dbs *DBStorage) HighestRatedBook() (models.RatedBook, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	// NULLS LAST keeps voteless books behind rated ones; ties stay arbitrary.
	row := dbs.pool.QueryRow(ctx, `
		SELECT b.id, b.name, b.image_path, b.description, AVG(v.vote)::float AS average_vote
		FROM books b
		LEFT JOIN votes v ON b.id = v.book_id
		GROUP BY b.id, b.name, b.image_path, b.description
		ORDER BY average_vote DESC NULLS LAST
		LIMIT 1`)

	var book models.RatedBook
	if err := row.Scan(&book.ID, &book.Name, &book.ImagePath, &book.Description, &book.AverageVote); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RatedBook{}, storerrors.ErrBookNoExist
		}
		log.Error().Err(err).Msg("failed to scan highest rated book")
		return models.RatedBook{}, err
	}
	return book, nil
}

func (dbs *DBStorage) SaveOrder(order models.Order) (int64, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var id int64
	err := dbs.pool.QueryRow(ctx,
		`INSERT INTO orders (user_id, books, total_price) VALUES ($1, $2, $3) RETURNING id`,
		order.UserID, order.Books, order.TotalPrice).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert order")
		return 0, err
	}
	return id, nil
}

func (dbs *DBStorage) GetOrders() ([]models.Order, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	rows, err := dbs.pool.Query(ctx, `
		SELECT o.id, o.user_id, o.books, o.total_price, o.created_at,
		       u.first_name || ' ' || u.last_name AS name
		FROM orders o
		JOIN users u ON o.user_id = u.id`)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orders")
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Books, &order.TotalPrice, &order.CreatedAt, &order.Name); err != nil {
			log.Error().Err(err).Msg("failed to scan order row")
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (dbs *DBStorage) queryBooks(query string, args ...interface{}) ([]models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	rows, err := dbs.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get books from db")
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			log.Error().Err(err).Msg("failed to scan book row")
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func (dbs *DBStorage) insertPair(table string, userID, bookID int64) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	_, err := dbs.pool.Exec(ctx,
		`INSERT INTO `+table+` (user_id, book_id) VALUES ($1, $2)`, userID, bookID)
	if err != nil {
		log.Error().Err(err).Str("table", table).Msg("failed to insert membership row")
	}
	return err
}

func (dbs *DBStorage) deletePairs(table string, userID, bookID int64) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	_, err := dbs.pool.Exec(ctx,
		`DELETE FROM `+table+` WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		log.Error().Err(err).Str("table", table).Msg("failed to delete membership rows")
	}
	return err
}

func (dbs *DBStorage) clearPairs(table string, userID int64) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	_, err := dbs.pool.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID)
	if err != nil {
		log.Error().Err(err).Str("table", table).Msg("failed to clear membership rows")
	}
	return err
}

func scanBook(row pgx.Row) (models.Book, error) {
	var book models.Book
	err := row.Scan(&book.ID, &book.Name, &book.Author, &book.Category, &book.Publisher,
		&book.ImagePath, &book.Description, &book.City, &book.Address, &book.BookStore,
		&book.OldPrice, &book.Price, &book.VisitedCount, &book.DateAdded)
	return book, err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.MiddleName,
		&user.Email, &user.Password, &user.Address, &user.City, &user.Telephone,
		&user.RegisterDate, &user.LastActivity, &user.UserType)
	return user, err
}

func prefixedBookColumns(alias string) string {
	cols := strings.Split(bookColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func Migrations(dbDsn string, migrationsPath string) error {
	log := logger.Get()
	migratePath := fmt.Sprintf("file://%s", migrationsPath)
	m, err := migrate.New(migratePath, dbDsn)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("no migrations apply")
			return nil
		}
		return err
	}
	log.Info().Msg("all migrations apply")
	return nil
}
