package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
	"github.com/Kallolx/appointment-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims carried in the session token.
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService owns accounts and session tokens. Login works with either a
// password or a verified OTP; OTP login creates the account on first use.
type AuthService struct {
	store    storage.Store
	otp      *OTPService
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(store storage.Store, otp *OTPService, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		otp:      otp,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates an account with a password. Duplicate phone or email is a
// conflict distinct from generic validation.
func (s *AuthService) Register(name, phone, email, password string) (*models.User, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.store.GetUserByPhone(normalized); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if email != "" {
		if _, err := s.store.GetUserByEmail(email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Phone:        normalized,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if email != "" {
		user.Email = &email
	}
	return s.store.CreateUser(user)
}

// LoginPassword authenticates with phone + password and returns a session
// token. Unknown phone and wrong password are indistinguishable.
func (s *AuthService) LoginPassword(phone, password string) (string, *models.User, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByPhone(normalized)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SendOTP dispatches a verification code to phone.
func (s *AuthService) SendOTP(phone string) (*DeliveryOutcome, error) {
	return s.otp.Send(phone)
}

// LoginOTP verifies the code and returns a session token, creating the
// account from the phone number if none exists yet.
func (s *AuthService) LoginOTP(phone, code string) (string, *models.User, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return "", nil, err
	}

	if err := s.otp.Verify(normalized, code); err != nil {
		return "", nil, err
	}

	user, err := s.store.GetUserByPhone(normalized)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = s.store.CreateUser(&models.User{
			Phone:      normalized,
			Role:       models.RoleUser,
			IsVerified: true,
		})
	}
	if err != nil {
		return "", nil, err
	}

	if !user.IsVerified {
		user.IsVerified = true
		if err := s.store.UpdateUser(user); err != nil {
			return "", nil, err
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a session token and returns its claims.
func (s *AuthService) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
