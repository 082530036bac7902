package services

import (
	"context"
	"fmt"
	"time"

	"recycling-rewards-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtExpDays = 365

// UserStore is the user-account store contract
type UserStore interface {
	Create(ctx context.Context, user *models.UserAccount) error
	GetByID(ctx context.Context, id string) (*models.UserAccount, error)
}

// UserService handles account creation and token auth. The points balance
// on an account is read here but only ever written by the ledger.
type UserService struct {
	users     UserStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users UserStore, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// CreateUser creates a new account with a zero points balance and issues
// its bearer token
func (s *UserService) CreateUser(ctx context.Context, displayName, photoURL string) (*models.UserAccount, error) {
	userID := uuid.New().String()

	token, err := s.GenerateJWT(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := &models.UserAccount{
		ID:            userID,
		DisplayName:   displayName,
		PhotoURL:      photoURL,
		PointsBalance: 0,
		Token:         token,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetProfile retrieves an account with its current points balance
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserAccount, error) {
	return s.users.GetByID(ctx, userID)
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
