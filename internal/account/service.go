package account

import (
	"fmt"
	"log/slog"
	"time"

	accountDatamodel "github.com/frahmantamala/lead-management/internal/core/datamodel/account"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetByEmail(email string) (*accountDatamodel.Account, error)
	Create(account *accountDatamodel.Account) error
	List() ([]*accountDatamodel.Account, error)
}

type Service struct {
	repo       RepositoryAPI
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, secret string, tokenTTL time.Duration, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Login checks the password and issues a service token.
func (s *Service) Login(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if stored == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	acc := FromDataModel(stored)
	token, err := s.GenerateToken(acc)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("account logged in", "account_id", acc.ID)
	return &LoginResponse{ServiceToken: token, User: acc.ToResponse()}, nil
}

// Register stores a new account and returns every account, newest last.
func (s *Service) Register(dto RegisterDTO) ([]UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := dto.ID
	if id == "" {
		id = uuid.NewString()
	}
	acc := &Account{
		ID:           id,
		Email:        dto.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
	}
	if err := s.repo.Create(ToDataModel(acc)); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Info("account registered", "account_id", acc.ID)

	all, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	out := make([]UserResponse, 0, len(all))
	for _, a := range all {
		out = append(out, FromDataModel(a).ToResponse())
	}
	return out, nil
}

// Me resolves a service token to the account it was issued for.
func (s *Service) Me(token string) (*UserResponse, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	stored, err := s.repo.GetByEmail(claims.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if stored == nil {
		return nil, ErrInvalidToken
	}

	resp := FromDataModel(stored).ToResponse()
	return &resp, nil
}

// GenerateToken signs an HS256 token for acc.
func (s *Service) GenerateToken(acc *Account) (string, error) {
	now := s.now()
	claims := &Claims{
		Email: acc.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken verifies signature and expiry.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
