package services

import (
	"errors"
	"io"
	"log"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/pkg/hashutil"
)

var (
	// ErrEmailRegistered signals a duplicate registration attempt.
	ErrEmailRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is deliberately generic: it covers both an
	// unknown email and a wrong password so the login endpoint cannot be
	// used to enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// Mailer delivers a verification email for the given address. Delivery
// is asynchronous and best-effort; implementations must not block on
// the actual transport.
type Mailer interface {
	SendVerification(email, token string) error
}

// ImageUploader pushes file bytes to the external image host and
// returns the hosted URL.
type ImageUploader interface {
	Upload(file io.Reader, filename string) (string, error)
}

// AuthService handles registration, login, email verification and the
// avatar flow.
type AuthService struct {
	users    repositories.UserRepository
	tokens   *TokenService
	mailer   Mailer
	uploader ImageUploader
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, tokens *TokenService, mailer Mailer, uploader ImageUploader) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		uploader: uploader,
	}
}

// Register creates an inactive user and schedules the verification
// email. Mail delivery is fire-and-forget: a failure is logged but never
// surfaced to the caller, and the registration still succeeds.
func (s *AuthService) Register(userCreate *models.UserCreate) (*models.User, error) {
	existing, err := s.users.GetByEmail(userCreate.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailRegistered
	}

	user, err := s.users.Create(userCreate)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.Email, VerificationTokenTTL)
	if err != nil {
		log.Printf("Failed to issue verification token for %s: %v", user.Email, err)
		return user, nil
	}
	go func() {
		if err := s.mailer.SendVerification(user.Email, token); err != nil {
			log.Printf("Failed to send verification email to %s: %v", user.Email, err)
		}
	}()

	return user, nil
}

// Login validates credentials and issues an access/refresh token pair.
func (s *AuthService) Login(email, password string) (access, refresh string, err error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", "", err
	}
	if user == nil || !hashutil.VerifyPassword(password, user.HashedPassword) {
		return "", "", ErrInvalidCredentials
	}

	access, err = s.tokens.Issue(user.Email, AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.Issue(user.Email, RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyEmail decodes the verification token and activates the matching
// user. Verifying an already-active user is idempotent.
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	email, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repositories.ErrUserNotFound
	}

	if err := s.users.Activate(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar uploads the file to the image host and persists the
// returned URL on the user's profile.
func (s *AuthService) UpdateAvatar(email string, file io.Reader, filename string) (*models.User, error) {
	url, err := s.uploader.Upload(file, filename)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateAvatar(email, url)
}
