package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/knigibg/bookstore/internal/logger"
)

type cartRequest struct {
	UserID int64 `json:"userId"`
	BookID int64 `json:"bookId"`
}

type clearRequest struct {
	UserID int64 `json:"userId"`
}

// addToCart appends a row per call; adding the same book twice leaves two
// rows, which is how the storefront counts quantity.
func (s *Server) addToCart(ctx *gin.Context) {
	log := logger.Get()
	var req cartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 || req.BookID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing userId or bookId"})
		return
	}

	if err := s.Storage.AddToCart(req.UserID, req.BookID); err != nil {
		log.Error().Err(err).Msg("add to cart failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "book added to cart"})
}

func (s *Server) cartBooks(ctx *gin.Context) {
	log := logger.Get()
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid userId"})
		return
	}

	books, err := s.Storage.CartBooks(userID)
	if err != nil {
		log.Error().Err(err).Msg("get cart failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, nonNil(books))
}

// removeFromCart drops every row for the pair, so a book added three times
// disappears in one call.
func (s *Server) removeFromCart(ctx *gin.Context) {
	log := logger.Get()
	var req cartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 || req.BookID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing userId or bookId"})
		return
	}

	if err := s.Storage.RemoveFromCart(req.UserID, req.BookID); err != nil {
		log.Error().Err(err).Msg("remove from cart failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "book removed from cart"})
}

func (s *Server) clearCart(ctx *gin.Context) {
	log := logger.Get()
	var req clearRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing userId"})
		return
	}

	if err := s.Storage.ClearCart(req.UserID); err != nil {
		log.Error().Err(err).Msg("clear cart failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared"})
}

func (s *Server) addToFavourites(ctx *gin.Context) {
	log := logger.Get()
	var req cartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 || req.BookID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing userId or bookId"})
		return
	}

	if err := s.Storage.AddToFavourites(req.UserID, req.BookID); err != nil {
		log.Error().Err(err).Msg("add to favourites failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "book added to favourites"})
}

func (s *Server) favouriteBooks(ctx *gin.Context) {
	log := logger.Get()
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid userId"})
		return
	}

	books, err := s.Storage.FavouriteBooks(userID)
	if err != nil {
		log.Error().Err(err).Msg("get favourites failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, nonNil(books))
}

// checkFavourite serves /favourites/check/:userId/:bookId, which shares the
// /favourites/:userId wildcard.
func (s *Server) checkFavourite(ctx *gin.Context) {
	log := logger.Get()
	if ctx.Param("userId") != "check" {
		ctx.Status(http.StatusNotFound)
		return
	}

	userID, uErr := strconv.ParseInt(ctx.Param("checkUser"), 10, 64)
	bookID, bErr := strconv.ParseInt(ctx.Param("checkBook"), 10, 64)
	if uErr != nil || bErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid userId or bookId"})
		return
	}

	fav, err := s.Storage.IsFavourite(userID, bookID)
	if err != nil {
		log.Error().Err(err).Msg("check favourite failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"isFavorite": fav})
}

func (s *Server) removeFromFavourites(ctx *gin.Context) {
	log := logger.Get()
	var req cartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 || req.BookID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing userId or bookId"})
		return
	}

	if err := s.Storage.RemoveFromFavourites(req.UserID, req.BookID); err != nil {
		log.Error().Err(err).Msg("remove from favourites failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "book removed from favourites"})
}

func (s *Server) clearFavourites(ctx *gin.Context) {
	log := logger.Get()
	var req clearRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing userId"})
		return
	}

	if err := s.Storage.ClearFavourites(req.UserID); err != nil {
		log.Error().Err(err).Msg("clear favourites failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "database error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "favourites cleared"})
}
