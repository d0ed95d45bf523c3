package services

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rutkovskaya/habita/internal/db"
	"github.com/rutkovskaya/habita/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	MinPasswordLength = 8

	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type RegistrationInput struct {
	Email           string
	Username        string
	Password        string
	PasswordConfirm string
	TelegramChatID  string
}

// ValidateRegistrationInput returns a client-facing message for the first
// problem found, or "" when the input is acceptable.
func ValidateRegistrationInput(input RegistrationInput) string {
	email := normalizeEmail(input.Email)
	if email == "" {
		return "email is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "invalid email address"
	}
	if strings.TrimSpace(input.Username) == "" {
		return "username is required"
	}
	if len(input.Password) < MinPasswordLength {
		return "password must be at least 8 characters"
	}
	if input.Password != input.PasswordConfirm {
		return "passwords do not match"
	}
	return ""
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type authClaims struct {
	UserID    uint   `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users     *db.UserRepository
	secretKey []byte
	location  *time.Location
}

func NewAuthService(users *db.UserRepository, secretKey string, location *time.Location) *AuthService {
	if location == nil {
		location = time.Local
	}
	return &AuthService{users: users, secretKey: []byte(secretKey), location: location}
}

// Register creates an account with a bcrypt password hash. The input is
// assumed to have passed ValidateRegistrationInput.
func (service *AuthService) Register(input RegistrationInput) (models.User, error) {
	email := normalizeEmail(input.Email)

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:          email,
		Username:       strings.TrimSpace(input.Username),
		PasswordHash:   string(passwordHash),
		TelegramChatID: strings.TrimSpace(input.TelegramChatID),
		CreatedAt:      time.Now().In(service.location),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, ErrEmailTaken
	}
	return user, nil
}

// Authenticate checks the credentials and returns the matching user. A
// missing account and a wrong password are indistinguishable to the caller.
func (service *AuthService) Authenticate(email string, password string) (models.User, error) {
	user, err := service.users.FindByNormalizedEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func (service *AuthService) UpdateProfile(userID uint, updates map[string]any) error {
	return service.users.UpdateProfile(userID, updates)
}

// IssueTokenPair mints a short-lived access token and a week-long refresh
// token carrying a unique jti.
func (service *AuthService) IssueTokenPair(user models.User) (TokenPair, error) {
	access, err := service.signToken(user.ID, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := service.signToken(user.ID, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
func (service *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	userID, err := service.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	if _, err := service.users.FindByID(userID); err != nil {
		return "", ErrInvalidToken
	}
	return service.signToken(userID, tokenTypeAccess, accessTokenTTL)
}

// ParseAccessToken validates an access token and returns the subject user id.
func (service *AuthService) ParseAccessToken(token string) (uint, error) {
	return service.parseToken(token, tokenTypeAccess)
}

func (service *AuthService) signToken(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(service.secretKey)
}

func (service *AuthService) parseToken(rawToken string, expectedType string) (uint, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return service.secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != expectedType || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
