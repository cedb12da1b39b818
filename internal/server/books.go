package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/knigibg/bookstore/internal/domain/consts"
	"github.com/knigibg/bookstore/internal/domain/models"
	"github.com/knigibg/bookstore/internal/logger"
	storerrors "github.com/knigibg/bookstore/internal/storage/errors"
)

type bookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Category    string  `json:"category"`
	Publisher   string  `json:"publisher"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	OldPrice    float64 `json:"oldPrice"`
	Price       float64 `json:"price"`
}

func (r bookRequest) toBook() models.Book {
	return models.Book{
		Name:        r.Title,
		Author:      r.Author,
		Category:    r.Category,
		Publisher:   r.Publisher,
		ImagePath:   r.ImageURL,
		Description: r.Description,
		City:        r.City,
		Address:     r.Address,
		OldPrice:    r.OldPrice,
		Price:       r.Price,
	}
}

func (s *Server) latestBooks(ctx *gin.Context) {
	log := logger.Get()
	books, err := s.Storage.LatestBooks(consts.LatestBooksLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest books")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database error", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, nonNil(books))
}

func (s *Server) bookInfo(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "invalid book ID"})
		return
	}

	book, err := s.Storage.GetBook(id)
	if err != nil {
		if errors.Is(err, storerrors.ErrBookNoExist) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "book not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database error", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, book)
}

// booksByGroup serves /books/category/:name and /books/publisher/:name,
// which share the /books/:id wildcard.
func (s *Server) booksByGroup(ctx *gin.Context) {
	log := logger.Get()
	name := ctx.Param("name")

	var books []models.Book
	var err error
	switch ctx.Param("id") {
	case "category":
		books, err = s.Storage.BooksByCategory(name)
	case "publisher":
		books, err = s.Storage.BooksByPublisher(name)
	default:
		ctx.Status(http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error().Err(err).Str("group", ctx.Param("id")).Msg("failed to get books")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database error", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, nonNil(books))
}

func (s *Server) searchBooks(ctx *gin.Context) {
	log := logger.Get()
	filter := models.SearchFilter{
		Query:     ctx.Query("q"),
		Sort:      ctx.Query("sort"),
		BookStore: ctx.Query("bookStore"),
		City:      ctx.Query("city"),
	}

	books, err := s.Storage.SearchBooks(filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to search books")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database query error"})
		return
	}
	ctx.JSON(http.StatusOK, nonNil(books))
}

func (s *Server) specialBooks(ctx *gin.Context) {
	log := logger.Get()
	books, err := s.Storage.SpecialBooks(consts.SpecialBooksLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get special books")
		ctx.String(http.StatusInternalServerError, "error fetching data")
		return
	}
	ctx.JSON(http.StatusOK, nonNil(books))
}

func (s *Server) topVisitedBooks(ctx *gin.Context) {
	log := logger.Get()
	books, err := s.Storage.TopVisitedBooks(consts.TopVisitedLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get top visited books")
		ctx.String(http.StatusInternalServerError, "error fetching data")
		return
	}
	ctx.JSON(http.StatusOK, nonNil(books))
}

// incrementVisited bumps the counter on every call; there is no dedup by
// viewer and no upper bound.
func (s *Server) incrementVisited(ctx *gin.Context) {
	log := logger.Get()
	id, err := strconv.ParseInt(ctx.Param("bookId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid book ID"})
		return
	}

	if err := s.Storage.IncrementVisited(id); err != nil {
		log.Error().Err(err).Msg("failed to update visited count")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update visited count"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "visited count updated"})
}

func (s *Server) addBook(ctx *gin.Context) {
	log := logger.Get()
	var req bookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if err := s.valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "title and author are required"})
		return
	}

	id, err := s.Storage.SaveBook(req.toBook())
	if err != nil {
		log.Error().Err(err).Msg("save book failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "failed to add book"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "book added successfully", "bookId": id})
}

func (s *Server) updateBook(ctx *gin.Context) {
	log := logger.Get()
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "ID, title and author are required"})
		return
	}

	var req bookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Author == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "ID, title and author are required"})
		return
	}

	book := req.toBook()
	book.ID = id
	if err := s.Storage.UpdateBook(book); err != nil {
		if errors.Is(err, storerrors.ErrBookNoExist) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "book not found"})
			return
		}
		log.Error().Err(err).Msg("update book failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database error", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "book updated successfully", "bookId": id})
}
