package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/knigibg/bookstore/internal/auth"
	"github.com/knigibg/bookstore/internal/config"
	"github.com/knigibg/bookstore/internal/domain/models"
	"github.com/knigibg/bookstore/internal/logger"
)

type Storage interface {
	SaveUser(models.User) (int64, error)
	GetUser(int64) (models.User, error)
	GetUserByEmail(string) (models.User, error)
	UpdateUser(models.User) error

	SaveBook(models.Book) (int64, error)
	UpdateBook(models.Book) error
	GetBook(int64) (models.Book, error)
	LatestBooks(int) ([]models.Book, error)
	BooksByCategory(string) ([]models.Book, error)
	BooksByPublisher(string) ([]models.Book, error)
	SearchBooks(models.SearchFilter) ([]models.Book, error)
	SpecialBooks(int) ([]models.Book, error)
	TopVisitedBooks(int) ([]models.Book, error)
	IncrementVisited(int64) error

	AddToCart(userID, bookID int64) error
	CartBooks(userID int64) ([]models.Book, error)
	RemoveFromCart(userID, bookID int64) error
	ClearCart(userID int64) error

	AddToFavourites(userID, bookID int64) error
	FavouriteBooks(userID int64) ([]models.Book, error)
	IsFavourite(userID, bookID int64) (bool, error)
	RemoveFromFavourites(userID, bookID int64) error
	ClearFavourites(userID int64) error

	SaveVote(models.Vote) error
	HighestRatedBook() (models.RatedBook, error)

	SaveOrder(models.Order) (int64, error)
	GetOrders() ([]models.Order, error)
}

type Server struct {
	serv    *http.Server
	valid   *validator.Validate
	Storage Storage
	Creds   auth.Scheme
}

func New(cfg config.Config, stor Storage, creds auth.Scheme) *Server {
	server := http.Server{ //nolint:gosec // not today
		Addr: cfg.Addr,
	}
	return &Server{
		serv:    &server,
		valid:   validator.New(),
		Storage: stor,
		Creds:   creds,
	}
}

func (s *Server) Run(ctx context.Context) error {
	log := logger.Get()
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	router.POST("/register", s.register)
	router.POST("/login", s.login)
	router.POST("/api/updateUser", s.updateUser)
	router.GET("/api/profile", s.JWTAuthMiddleware(), s.profile)

	books := router.Group("/books")
	{
		books.GET("", s.latestBooks)
		books.GET("/:id", s.bookInfo)
		// gin cannot mix the static "category"/"publisher" segments with the
		// :id wildcard, so both listings share the wildcard and dispatch inside.
		books.GET("/:id/:name", s.booksByGroup)
		books.PUT("/:id", s.updateBook)
	}
	router.POST("/add-book", s.addBook)
	router.GET("/search-books", s.searchBooks)
	router.GET("/special-books", s.specialBooks)
	router.GET("/top-visited-books", s.topVisitedBooks)
	router.POST("/increment-visited-count/:bookId", s.incrementVisited)

	cart := router.Group("/cart")
	{
		cart.POST("", s.addToCart)
		cart.GET("/:userId", s.cartBooks)
		cart.POST("/remove", s.removeFromCart)
		cart.POST("/clear", s.clearCart)
	}

	favourites := router.Group("/favourites")
	{
		favourites.POST("", s.addToFavourites)
		favourites.GET("/:userId", s.favouriteBooks)
		// Same wildcard sharing as /books: this only serves /favourites/check/...
		favourites.GET("/:userId/:checkUser/:checkBook", s.checkFavourite)
		favourites.POST("/remove", s.removeFromFavourites)
		favourites.POST("/clear", s.clearFavourites)
	}

	router.POST("/vote", s.vote)
	router.GET("/highest-rated-book", s.highestRatedBook)

	router.POST("/order", s.placeOrder)
	router.GET("/orders", s.listOrders)

	router.GET("/exchange-rates", s.exchangeRates)

	s.serv.Handler = router
	log.Info().Str("host", s.serv.Addr).Msg("server started")
	return s.serv.ListenAndServe()
}

func (s *Server) ShutdownServer() error {
	return s.serv.Shutdown(context.Background())
}

// nonNil keeps list endpoints returning [] instead of null; the storefront
// maps over the response unconditionally.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
