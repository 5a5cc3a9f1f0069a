package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles HTTP requests for the contact list.
type ContactHandler struct {
	service  *services.ContactService
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the contact routes. The router must already
// carry AuthRequired; role checks are added per route here. Static
// paths go first so they are not captured by the :identifier routes.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	userOrAdmin := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	router.Get("/all", adminOnly, h.HandleListAll)
	router.Get("/search", userOrAdmin, h.HandleSearch)
	router.Get("/upcoming_birthdays", h.HandleUpcomingBirthdays)
	router.Get("/", userOrAdmin, h.HandleList)
	router.Post("/", userOrAdmin, h.HandleCreate)
	router.Put("/:identifier", h.HandleUpdate)
	router.Delete("/:contact_id", adminOnly, h.HandleDelete)
}

// HandleList returns the current user's contacts, paginated.
func (h *ContactHandler) HandleList(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	contacts, err := h.service.List(user.ID, limit, offset)
	if err != nil {
		log.Printf("Error listing contacts for user %d: %v", user.ID, err)
		return internalError(c, "Could not retrieve contacts")
	}
	return c.JSON(contacts)
}

// HandleListAll returns contacts across all owners. Admin only.
func (h *ContactHandler) HandleListAll(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	contacts, err := h.service.ListAll(limit, offset)
	if err != nil {
		log.Printf("Error listing all contacts: %v", err)
		return internalError(c, "Could not retrieve contacts")
	}
	return c.JSON(contacts)
}

// HandleCreate adds a contact to the current user's address book.
func (h *ContactHandler) HandleCreate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var contactCreate models.ContactCreate
	if err := c.BodyParser(&contactCreate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(contactCreate); err != nil {
		return validationError(c, err)
	}

	contact, err := h.service.Create(&contactCreate, user.ID)
	if err != nil {
		log.Printf("Error creating contact for user %d: %v", user.ID, err)
		return internalError(c, "Could not create contact")
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// HandleSearch performs a substring search over the user's contacts.
func (h *ContactHandler) HandleSearch(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	query := c.Query("query")

	contacts, err := h.service.Search(user.ID, query)
	if err != nil {
		log.Printf("Error searching contacts for user %d: %v", user.ID, err)
		return internalError(c, "Could not search contacts")
	}
	return c.JSON(contacts)
}

// HandleUpcomingBirthdays returns contacts with a birthday in the next
// days (default 7).
func (h *ContactHandler) HandleUpcomingBirthdays(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	days := c.QueryInt("days", 7)

	contacts, err := h.service.UpcomingBirthdays(user.ID, days)
	if err != nil {
		log.Printf("Error loading upcoming birthdays for user %d: %v", user.ID, err)
		return internalError(c, "Could not retrieve upcoming birthdays")
	}
	return c.JSON(contacts)
}

// HandleUpdate applies a partial update to the contact resolved from
// the identifier (numeric id, email, first name or "first last").
func (h *ContactHandler) HandleUpdate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	identifier := c.Params("identifier")

	var update models.ContactUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(update); err != nil {
		return validationError(c, err)
	}

	contact, err := h.service.Update(identifier, user.ID, &update)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailInUse) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Email already in use",
			})
		}
		log.Printf("Error updating contact %q for user %d: %v", identifier, user.ID, err)
		return internalError(c, "Could not update contact")
	}
	if contact == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Contact not found",
		})
	}
	return c.JSON(contact)
}

// HandleDelete removes a contact by id. Admin only.
func (h *ContactHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("contact_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid contact id",
		})
	}

	contact, err := h.service.GetByID(uint(id))
	if err != nil {
		log.Printf("Error loading contact %d: %v", id, err)
		return internalError(c, "Could not delete contact")
	}
	if contact == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Contact not found",
		})
	}

	if err := h.service.Delete(uint(id)); err != nil {
		log.Printf("Error deleting contact %d: %v", id, err)
		return internalError(c, "Could not delete contact")
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Contact %d deleted", id)})
}
