package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/knigibg/bookstore/internal/domain/models"
	"github.com/knigibg/bookstore/internal/logger"
	storerrors "github.com/knigibg/bookstore/internal/storage/errors"
)

type registerRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	MiddleName string `json:"middle_name"`
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Telephone  string `json:"telephone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Telephone       string `json:"telephone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) register(ctx *gin.Context) {
	log := logger.Get()
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "all required fields must be filled"})
		return
	}
	if err := s.valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "all required fields must be filled"})
		return
	}

	password, err := s.Creds.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("hash password failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database error", "error": err.Error()})
		return
	}

	id, err := s.Storage.SaveUser(models.User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Email:      req.Email,
		Password:   password,
		Address:    req.Address,
		City:       req.City,
		Telephone:  req.Telephone,
		UserType:   1,
	})
	if err != nil {
		if errors.Is(err, storerrors.ErrUserExists) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "user with this email already exists"})
			return
		}
		log.Error().Err(err).Msg("save user failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database error", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "registration successful", "userId": id})
}

// login keeps the legacy contract: the full stored user row, password field
// included, is echoed back on success. The credential scheme hides whether
// the comparison is plaintext or bcrypt.
func (s *Server) login(ctx *gin.Context) {
	log := logger.Get()
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "all required fields must be filled"})
		return
	}
	if req.Email == "" || req.Password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "all required fields must be filled"})
		return
	}

	user, err := s.Storage.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, storerrors.ErrUserNoExist) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
			return
		}
		log.Error().Err(err).Msg("get user failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "database error", "error": err.Error()})
		return
	}

	if err := s.Creds.Verify(user.Password, req.Password); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	token, err := createJWTToken(user.ID, user.UserType)
	if err != nil {
		log.Error().Err(err).Msg("create jwt failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Header("Authorization", token)

	ctx.JSON(http.StatusOK, gin.H{"message": "login successful", "user": user})
}

func (s *Server) updateUser(ctx *gin.Context) {
	log := logger.Get()
	var req updateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and current password are required"})
		return
	}
	if req.Email == "" || req.CurrentPassword == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and current password are required"})
		return
	}

	user, err := s.Storage.GetUserByEmail(req.Email)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "user not found"})
		return
	}

	if err := s.Creds.Verify(user.Password, req.CurrentPassword); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "wrong password"})
		return
	}

	// Profile fields are written exactly as submitted; only the password
	// falls back to the stored value when no new one is given.
	user.FirstName = req.FirstName
	user.MiddleName = req.MiddleName
	user.LastName = req.LastName
	user.Address = req.Address
	user.Telephone = req.Telephone
	if req.NewPassword != "" {
		password, err := s.Creds.Hash(req.NewPassword)
		if err != nil {
			log.Error().Err(err).Msg("hash password failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update profile"})
			return
		}
		user.Password = password
	}

	if err := s.Storage.UpdateUser(user); err != nil {
		log.Error().Err(err).Msg("update user failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update profile"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "profile updated successfully"})
}

func (s *Server) profile(ctx *gin.Context) {
	log := logger.Get()
	uid := ctx.GetInt64("uid")

	user, err := s.Storage.GetUser(uid)
	if err != nil {
		if errors.Is(err, storerrors.ErrUserNoExist) {
			ctx.String(http.StatusNotFound, err.Error())
			return
		}
		log.Error().Err(err).Msg("failed get user from db")
		ctx.String(http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, user)
}
