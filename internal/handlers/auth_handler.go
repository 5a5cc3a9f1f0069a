package handlers

import (
	"errors"
	"fmt"
	"log"

	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, verification,
// login and the avatar flow.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Get("/verify-email", h.HandleVerifyEmail)
	router.Post("/token", h.HandleToken)
	router.Post("/refresh", h.HandleRefresh)
}

// RegisterProtectedRoutes registers routes that need a bearer token.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Patch("/avatar", h.HandleUpdateAvatar)
}

// HandleRegister creates an inactive user and schedules the
// verification email.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var userCreate models.UserCreate
	if err := c.BodyParser(&userCreate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(userCreate); err != nil {
		return validationError(c, err)
	}

	user, err := h.authService.Register(&userCreate)
	if err != nil {
		if errors.Is(err, services.ErrEmailRegistered) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Email already registered",
			})
		}
		log.Printf("Error registering user: %v", err)
		return internalError(c, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleVerifyEmail activates the user referenced by the token.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing verification token",
		})
	}

	if _, err := h.authService.VerifyEmail(token); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired verification token",
			})
		case errors.Is(err, repositories.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		default:
			log.Printf("Error verifying email: %v", err)
			return internalError(c, "Could not verify email")
		}
	}

	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

// TokenResponse is the token-issuance response body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// HandleToken issues an access/refresh token pair. Credentials arrive
// as form fields; the username field carries the email.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	email := c.FormValue("username")
	password := c.FormValue("password")

	access, refresh, err := h.authService.Login(email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Set("WWW-Authenticate", "Bearer")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Incorrect email or password",
			})
		}
		log.Printf("Error during login for %s: %v", email, err)
		return internalError(c, "Could not issue tokens")
	}

	return c.Status(fiber.StatusCreated).JSON(TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

// HandleRefresh exchanges a refresh token for a new pair.
// TODO: implement refresh-token rotation; the route is declared for API
// compatibility and answers 501 until then.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNotImplemented)
}

// HandleUpdateAvatar uploads the posted file to the image host and
// stores the resulting URL. Any failure along the way collapses into a
// generic 500.
func (h *AuthHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing file upload",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		return internalError(c, "Failed to update avatar")
	}
	defer file.Close()

	updated, err := h.authService.UpdateAvatar(user.Email, file, fileHeader.Filename)
	if err != nil {
		log.Printf("Failed to update avatar for %s: %v", user.Email, err)
		return internalError(c, "Failed to update avatar")
	}

	return c.JSON(updated)
}

func validationError(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}
