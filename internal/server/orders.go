package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/knigibg/bookstore/internal/currency"
	"github.com/knigibg/bookstore/internal/domain/models"
	"github.com/knigibg/bookstore/internal/logger"
	storerrors "github.com/knigibg/bookstore/internal/storage/errors"
)

type orderRequest struct {
	UserID     int64              `json:"userId"`
	Books      []models.OrderItem `json:"books"`
	TotalPrice *float64           `json:"totalPrice"`
}

func (s *Server) vote(ctx *gin.Context) {
	log := logger.Get()
	var req models.Vote
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid vote data"})
		return
	}
	if err := s.valid.Struct(req); err != nil || req.UserID == 0 || req.BookID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid vote data"})
		return
	}

	if err := s.Storage.SaveVote(req); err != nil {
		log.Error().Err(err).Msg("save vote failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "vote recorded"})
}

func (s *Server) highestRatedBook(ctx *gin.Context) {
	log := logger.Get()
	book, err := s.Storage.HighestRatedBook()
	if err != nil {
		if errors.Is(err, storerrors.ErrBookNoExist) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "no books found"})
			return
		}
		log.Error().Err(err).Msg("highest rated book failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, book)
}

// placeOrder trusts the submitted total; nothing is recomputed from the
// item prices.
func (s *Server) placeOrder(ctx *gin.Context) {
	log := logger.Get()
	var req orderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}
	if req.UserID == 0 || len(req.Books) == 0 || req.TotalPrice == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	blob, err := json.Marshal(req.Books)
	if err != nil {
		log.Error().Err(err).Msg("marshal order items failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error placing order"})
		return
	}

	id, err := s.Storage.SaveOrder(models.Order{
		UserID:     req.UserID,
		Books:      string(blob),
		TotalPrice: *req.TotalPrice,
	})
	if err != nil {
		log.Error().Err(err).Msg("save order failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error placing order"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "orderId": id})
}

// listOrders returns every order in the system; there is no per-user
// filter on this endpoint.
func (s *Server) listOrders(ctx *gin.Context) {
	log := logger.Get()
	orders, err := s.Storage.GetOrders()
	if err != nil {
		log.Error().Err(err).Msg("get orders failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "database query error: " + err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, nonNil(orders))
}

func (s *Server) exchangeRates(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"base":    currency.Base,
		"rates":   currency.Rates(),
		"symbols": currency.Symbols(),
	})
}
