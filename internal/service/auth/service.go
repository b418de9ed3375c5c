package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const defaultTokenTTL = 24 * time.Hour

// ErrTokenInvalid возвращается для просроченного или подделанного токена.
var ErrTokenInvalid = errors.New("token is invalid")

// RegisterRequest — данные для создания учётной записи.
type RegisterRequest struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// Claims — полезная нагрузка JWT: идентификатор и адрес пользователя.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service выпускает и проверяет JWT-токены и управляет учётными записями.
// Подпись HS256 общим секретом, refresh-токенов нет.
type Service struct {
	users    domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *log.Entry
}

// NewService создаёт сервис аутентификации. При неположительном ttl
// используется сутки.
func NewService(users domain.UserRepository, secret []byte, tokenTTL time.Duration, logger *log.Entry) *Service {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if logger == nil {
		logger = log.New().WithField("component", "auth")
	}
	return &Service{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Register создаёт учётную запись с bcrypt-хэшем пароля.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	if req.Name == "" {
		return domain.User{}, domain.ErrNameRequired
	}
	if req.Email == "" {
		return domain.User{}, domain.ErrEmailRequired
	}
	if req.Password == "" {
		return domain.User{}, domain.ErrPasswordRequired
	}
	if req.Password != req.PasswordConfirm {
		return domain.User{}, domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	user.PasswordHash = ""
	return user, nil
}

// Login проверяет пароль и возвращает подписанный токен. Неверный адрес и
// неверный пароль дают одну и ту же ошибку.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// ParseToken проверяет подпись и срок действия токена.
func (s *Service) ParseToken(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) issueToken(user domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
