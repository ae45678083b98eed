package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/pkg"
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repo.UserRepository
	logger   zerolog.Logger
}

func NewUserService() *UserService {
	return &UserService{
		userRepo: repo.NewUserRepository(),
		logger:   api.Logger,
	}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an admin account with a bcrypt-hashed password.
func (slf *UserService) Register(email string, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}

	if err := slf.userRepo.Create(&user); err != nil {
		slf.logger.Error().Err(err).Str("email", email).Msg("Error creating user")
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues a token pair.
func (slf *UserService) Login(email string, password string) (*models.User, *TokenPair, error) {
	user, err := slf.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("invalid credentials")
		}
		slf.logger.Error().Err(err).Str("email", email).Msg("Error getting user")
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	tokens, err := slf.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (slf *UserService) Refresh(refreshToken string) (*TokenPair, error) {
	cfg := api.GetConfig().JWTConfig

	parsed, err := jwt.ParseWithClaims(refreshToken, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	user, err := slf.userRepo.FindByID(uint(userID))
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if user.RefreshToken != refreshToken {
		return nil, errors.New("refresh token revoked")
	}

	return slf.issueTokens(&user)
}

func (slf *UserService) issueTokens(user *models.User) (*TokenPair, error) {
	cfg := api.GetConfig().JWTConfig

	access, err := pkg.GenerateToken(user.ID, user.Email, string(user.Role), cfg.Secret, cfg.Expiration)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", user.ID).Msg("Error signing access token")
		return nil, err
	}

	refresh, err := pkg.GenerateRefreshToken(user.ID, cfg.Secret, cfg.RefreshExpiration)
	if err != nil {
		slf.logger.Error().Err(err).Uint("userId", user.ID).Msg("Error signing refresh token")
		return nil, err
	}

	user.RefreshToken = refresh
	if err := slf.userRepo.Update(user); err != nil {
		slf.logger.Error().Err(err).Uint("userId", user.ID).Msg("Error storing refresh token")
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
