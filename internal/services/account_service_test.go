package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"orderuz/internal/models"
	"orderuz/internal/repositories"
	"orderuz/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockAccountRepository is a mock implementation of repositories.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByEmail(email string) (*models.Account, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(id string) (*models.Account, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

// Mutate applies fn to the account the expectation returns.
func (m *MockAccountRepository) Mutate(id string, fn func(*models.Account) error) (*models.Account, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	account := args.Get(0).(*models.Account)
	if err := fn(account); err != nil {
		if errors.Is(err, repositories.ErrUnchanged) {
			return account, nil
		}
		return nil, err
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAccountService_Register(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	svc := services.NewAccountService(mockRepo, testJWTSecret)

	account := &models.Account{Name: "Nigora Sultanova", Email: "nigora.s@orderuz.com", Password: "password123"}
	mockRepo.On("GetByEmail", account.Email).Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Account")).Return(nil).Once()

	ok, err := svc.Register(account)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.AccountUser, account.AccountType)
	assert.NotEqual(t, "password123", account.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Duplicate email is a plain false.
	dup := &models.Account{Name: "Other", Email: "nigora.s@orderuz.com", Password: "x"}
	mockRepo.On("GetByEmail", dup.Email).Return(&models.Account{ID: "1"}, nil).Once()
	ok, err = svc.Register(dup)
	assert.NoError(t, err)
	assert.False(t, ok)

	// A race lost at the store is also a plain false.
	late := &models.Account{Name: "Late", Email: "late@orderuz.com", Password: "x"}
	mockRepo.On("GetByEmail", late.Email).Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", late).Return(fmt.Errorf("email late@orderuz.com: %w", repositories.ErrEmailTaken)).Once()
	ok, err = svc.Register(late)
	assert.NoError(t, err)
	assert.False(t, ok)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_Login(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	svc := services.NewAccountService(mockRepo, testJWTSecret)

	account := &models.Account{ID: "user-1", Email: "aziz.r@orderuz.com", Password: hashed(t, "password123")}

	mockRepo.On("GetByEmail", account.Email).Return(account, nil).Once()
	token, ok, err := svc.Login(account.Email, "password123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, isMap := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, isMap)
	assert.Equal(t, account.ID, claims["user_id"])
	assert.Equal(t, account.Email, claims["email"])

	mockRepo.On("GetByEmail", account.Email).Return(account, nil).Once()
	token, ok, err = svc.Login(account.Email, "wrongpassword")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)

	mockRepo.On("GetByEmail", "nobody@orderuz.com").Return(nil, repositories.ErrNotFound).Once()
	_, ok, err = svc.Login("nobody@orderuz.com", "password123")
	assert.NoError(t, err)
	assert.False(t, ok)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_ValidateToken(t *testing.T) {
	svc := services.NewAccountService(new(MockAccountRepository), testJWTSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))
	claims, err := svc.ValidateToken(validTokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])

	_, err = svc.ValidateToken("invalid.token.string")
	assert.ErrorContains(t, err, "invalid token")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = svc.ValidateToken(expiredTokenString)
	assert.ErrorContains(t, err, "invalid token")

	foreign, _ := token.SignedString([]byte("another_secret"))
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)
}

func TestAccountService_ChangePassword(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	svc := services.NewAccountService(mockRepo, testJWTSecret)

	account := &models.Account{ID: "user-1", Password: hashed(t, "old-pass")}
	mockRepo.On("GetByID", "user-1").Return(account, nil)
	mockRepo.On("Mutate", "user-1").Return(account, nil).Once()

	ok, err := svc.ChangePassword("user-1", "wrong", "new-pass")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ChangePassword("user-1", "old-pass", "new-pass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.Password), []byte("new-pass")))
	mockRepo.AssertExpectations(t)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	svc := services.NewAccountService(mockRepo, testJWTSecret)

	account := &models.Account{ID: "user-1", Password: hashed(t, "secret")}
	mockRepo.On("GetByID", "user-1").Return(account, nil)
	mockRepo.On("GetByID", "ghost").Return(nil, repositories.ErrNotFound)
	mockRepo.On("Delete", "user-1").Return(nil).Once()

	ok, err := svc.DeleteAccount("user-1", "nope")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteAccount("ghost", "secret")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteAccount("user-1", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_ProfileAndLocation(t *testing.T) {
	repo := repositories.NewMockAccountRepository()
	svc := services.NewAccountService(repo, testJWTSecret)

	ok, err := svc.Register(&models.Account{Name: "Aziz", Email: "aziz@orderuz.com", Password: "pw123456"})
	require.NoError(t, err)
	require.True(t, ok)
	stored, err := repo.GetByEmail("aziz@orderuz.com")
	require.NoError(t, err)

	address := "12 Amir Temur Avenue, Tashkent"
	updated, err := svc.UpdateProfile(stored.ID, services.ProfileUpdate{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, address, updated.Address)
	assert.Equal(t, "Aziz", updated.Name)

	updated, err = svc.SetLocation(stored.ID, models.Location{City: "Tashkent", District: "Mirabad"})
	require.NoError(t, err)
	assert.Equal(t, "Mirabad", updated.Location.District)

	_, err = svc.UpdateProfile("ghost", services.ProfileUpdate{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestAccountService_OrdersCountFollowsOrderHub(t *testing.T) {
	repo := repositories.NewMockAccountRepository()
	accounts := services.NewAccountService(repo, testJWTSecret)
	account := &models.Account{Name: "Aziz", Email: "aziz@orderuz.com"}
	require.NoError(t, repo.Create(account))

	clock := newFakeClock()
	orders, _ := newOrderService(clock, nil)
	orders.Subscribe(accounts.OnOrderChange)

	order, err := orders.CreateOrder(account.ID, plovOrder())
	require.NoError(t, err)
	_, err = orders.CreateOrder(account.ID, plovOrder())
	require.NoError(t, err)
	_, err = orders.CancelOrder(order.ID)
	require.NoError(t, err)

	got, _ := repo.GetByID(account.ID)
	assert.Equal(t, 2, got.OrdersCount)
}
