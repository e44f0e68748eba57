package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderuz/internal/models"
	"orderuz/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var errStaleCredentials = errors.New("credentials changed concurrently")

// AccountService handles registration, login and profile maintenance.
// Credential checks report failure as a false result; the error is kept
// for storage faults.
type AccountService struct {
	repo       repositories.AccountRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo repositories.AccountRepository, jwtSecret string) *AccountService {
	return &AccountService{
		repo:       repo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// Register stores a new account with a hashed password. It returns false
// when the email is already registered.
func (s *AccountService) Register(account *models.Account) (bool, error) {
	account.Email = strings.TrimSpace(account.Email)
	if existing, err := s.repo.GetByEmail(account.Email); err == nil && existing != nil {
		return false, nil
	}
	if account.AccountType == "" {
		account.AccountType = models.AccountUser
	}
	if account.FollowedRestaurants == nil {
		account.FollowedRestaurants = []string{}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	account.Password = string(hashedPassword)

	if err := s.repo.Create(account); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("failed to register account: %w", err)
	}
	log.Info().Str("account_id", account.ID).Str("account_type", string(account.AccountType)).Msg("account registered")
	return true, nil
}

// Login checks the credentials and returns a signed token when they match.
func (s *AccountService) Login(email, password string) (string, bool, error) {
	account, ok, err := s.authenticateEmail(email, password)
	if err != nil || !ok {
		return "", false, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", false, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, true, nil
}

func (s *AccountService) authenticateEmail(email, password string) (*models.Account, bool, error) {
	account, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return nil, false, nil
	}
	return account, true, nil
}

func (s *AccountService) authenticateID(id, password string) (*models.Account, bool, error) {
	account, err := s.repo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return nil, false, nil
	}
	return account, true, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AccountService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("token validation failed")
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetAccount returns the account by id.
func (s *AccountService) GetAccount(id string) (*models.Account, error) {
	return s.repo.GetByID(id)
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}

// UpdateProfile applies the non-nil fields of upd.
func (s *AccountService) UpdateProfile(id string, upd ProfileUpdate) (*models.Account, error) {
	account, err := s.repo.Mutate(id, func(a *models.Account) error {
		if upd.Name != nil {
			a.Name = *upd.Name
		}
		if upd.Phone != nil {
			a.Phone = *upd.Phone
		}
		if upd.Address != nil {
			a.Address = *upd.Address
		}
		return nil
	})
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return account, err
}

// SetLocation stores the account's delivery area.
func (s *AccountService) SetLocation(id string, loc models.Location) (*models.Account, error) {
	account, err := s.repo.Mutate(id, func(a *models.Account) error {
		a.Location = loc
		return nil
	})
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return account, err
}

// ChangePassword replaces the password when oldPassword matches.
func (s *AccountService) ChangePassword(id, oldPassword, newPassword string) (bool, error) {
	account, ok, err := s.authenticateID(id, oldPassword)
	if err != nil || !ok {
		return false, err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.repo.Mutate(id, func(a *models.Account) error {
		// A password changed since it was verified must be checked again.
		if a.Password != account.Password {
			return errStaleCredentials
		}
		a.Password = string(hashedPassword)
		return nil
	})
	if errors.Is(err, errStaleCredentials) || errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to change password: %w", err)
	}
	log.Info().Str("account_id", id).Msg("password changed")
	return true, nil
}

// DeleteAccount removes the account when password matches.
func (s *AccountService) DeleteAccount(id, password string) (bool, error) {
	_, ok, err := s.authenticateID(id, password)
	if err != nil || !ok {
		return false, err
	}
	if err := s.repo.Delete(id); err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	log.Info().Str("account_id", id).Msg("account deleted")
	return true, nil
}

// OnOrderChange keeps OrdersCount in step with created orders. It is meant
// to be subscribed to OrderService.
func (s *AccountService) OnOrderChange(change OrderChange) {
	if change.Type != models.EventOrderCreated || change.AccountID == "" {
		return
	}
	_, err := s.repo.Mutate(change.AccountID, func(a *models.Account) error {
		a.OrdersCount++
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("account_id", change.AccountID).Msg("orders count not updated")
	}
}
