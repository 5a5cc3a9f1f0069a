package services_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
	"contactbook/pkg/hashutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(userCreate *models.UserCreate) (*models.User, error) {
	args := m.Called(userCreate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Activate(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(email, url string) (*models.User, error) {
	args := m.Called(email, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockMailer records verification sends and signals on a channel so
// tests can wait out the fire-and-forget goroutine.
type MockMailer struct {
	mock.Mock
	sent chan string
}

func newMockMailer() *MockMailer {
	return &MockMailer{sent: make(chan string, 1)}
}

func (m *MockMailer) SendVerification(email, token string) error {
	args := m.Called(email, token)
	m.sent <- token
	return args.Error(0)
}

// MockUploader is a mock implementation of services.ImageUploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(file io.Reader, filename string) (string, error) {
	args := m.Called(file, filename)
	return args.String(0), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mailer := newMockMailer()
	tokens := services.NewTokenService("test_jwt_secret")
	authService := services.NewAuthService(mockRepo, tokens, mailer, new(MockUploader))

	userCreate := &models.UserCreate{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}
	created := &models.User{ID: 1, Username: "testuser", Email: "test@example.com", IsActive: false}

	mockRepo.On("GetByEmail", userCreate.Email).Return(nil, nil).Once()
	mockRepo.On("Create", userCreate).Return(created, nil).Once()
	mailer.On("SendVerification", created.Email, mock.AnythingOfType("string")).Return(nil).Once()

	user, err := authService.Register(userCreate)
	assert.NoError(t, err)
	assert.Equal(t, created, user)
	assert.False(t, user.IsActive)

	// the email goes out on a goroutine; wait for it and check the token
	select {
	case token := <-mailer.sent:
		subject, err := tokens.Decode(token)
		assert.NoError(t, err)
		assert.Equal(t, created.Email, subject)
	case <-time.After(time.Second):
		t.Fatal("verification email was never sent")
	}
	mockRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, services.NewTokenService("test_jwt_secret"), newMockMailer(), new(MockUploader))

	existing := &models.User{ID: 1, Email: "test@example.com"}
	mockRepo.On("GetByEmail", "test@example.com").Return(existing, nil).Once()

	_, err := authService.Register(&models.UserCreate{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, services.ErrEmailRegistered)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterMailFailureNotSurfaced(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mailer := newMockMailer()
	authService := services.NewAuthService(mockRepo, services.NewTokenService("test_jwt_secret"), mailer, new(MockUploader))

	created := &models.User{ID: 1, Email: "test@example.com"}
	mockRepo.On("GetByEmail", created.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.UserCreate")).Return(created, nil).Once()
	mailer.On("SendVerification", created.Email, mock.AnythingOfType("string")).Return(errors.New("smtp down")).Once()

	user, err := authService.Register(&models.UserCreate{
		Username: "testuser",
		Email:    created.Email,
		Password: "password123",
	})
	assert.NoError(t, err, "mail failure must stay invisible to the caller")
	assert.NotNil(t, user)

	select {
	case <-mailer.sent:
	case <-time.After(time.Second):
		t.Fatal("mailer was never invoked")
	}
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	tokens := services.NewTokenService("test_jwt_secret")
	authService := services.NewAuthService(mockRepo, tokens, newMockMailer(), new(MockUploader))

	hashed, err := hashutil.HashPassword("password123")
	assert.NoError(t, err)
	user := &models.User{ID: 1, Email: "test@example.com", HashedPassword: hashed}

	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()

	access, refresh, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	subject, err := tokens.Decode(access)
	assert.NoError(t, err)
	assert.Equal(t, user.Email, subject)
	subject, err = tokens.Decode(refresh)
	assert.NoError(t, err)
	assert.Equal(t, user.Email, subject)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, services.NewTokenService("test_jwt_secret"), newMockMailer(), new(MockUploader))

	hashed, err := hashutil.HashPassword("password123")
	assert.NoError(t, err)
	user := &models.User{ID: 1, Email: "test@example.com", HashedPassword: hashed}

	// wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.Login(user.Email, "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// unknown email yields the same error, nothing to enumerate
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, nil).Once()
	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	tokens := services.NewTokenService("test_jwt_secret")
	authService := services.NewAuthService(mockRepo, tokens, newMockMailer(), new(MockUploader))

	user := &models.User{ID: 1, Email: "test@example.com", IsActive: false}
	token, err := tokens.Issue(user.Email, services.VerificationTokenTTL)
	assert.NoError(t, err)

	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	mockRepo.On("Activate", user).Return(nil).Once()

	verified, err := authService.VerifyEmail(token)
	assert.NoError(t, err)
	assert.Equal(t, user, verified)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyEmailFailures(t *testing.T) {
	mockRepo := new(MockUserRepository)
	tokens := services.NewTokenService("test_jwt_secret")
	authService := services.NewAuthService(mockRepo, tokens, newMockMailer(), new(MockUploader))

	_, err := authService.VerifyEmail("not-a-token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	token, err := tokens.Issue("gone@example.com", services.VerificationTokenTTL)
	assert.NoError(t, err)
	mockRepo.On("GetByEmail", "gone@example.com").Return(nil, nil).Once()

	_, err = authService.VerifyEmail(token)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestAuthService_UpdateAvatar(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uploader := new(MockUploader)
	authService := services.NewAuthService(mockRepo, services.NewTokenService("test_jwt_secret"), newMockMailer(), uploader)

	file := strings.NewReader("image-bytes")
	uploader.On("Upload", file, "avatar.png").Return("https://img.example.com/a.png", nil).Once()
	updated := &models.User{ID: 1, Email: "test@example.com", Avatar: "https://img.example.com/a.png"}
	mockRepo.On("UpdateAvatar", "test@example.com", "https://img.example.com/a.png").Return(updated, nil).Once()

	user, err := authService.UpdateAvatar("test@example.com", file, "avatar.png")
	assert.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a.png", user.Avatar)

	// upload failure propagates without touching the repository
	uploader.On("Upload", file, "avatar.png").Return("", errors.New("upstream down")).Once()
	_, err = authService.UpdateAvatar("test@example.com", file, "avatar.png")
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
	uploader.AssertExpectations(t)
}
