package services

import (
	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

// ContactService handles business logic related to contacts. The rules
// themselves live in the repository queries; this layer exists so
// handlers never touch the repository interfaces directly.
type ContactService struct {
	repo repositories.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{
		repo: repo,
	}
}

// Create adds a contact to the owner's address book.
func (s *ContactService) Create(contactCreate *models.ContactCreate, ownerID uint) (*models.Contact, error) {
	return s.repo.Create(contactCreate, ownerID)
}

// List returns the owner's contacts, paginated.
func (s *ContactService) List(ownerID uint, limit, offset int) ([]models.Contact, error) {
	return s.repo.List(ownerID, limit, offset)
}

// ListAll returns contacts across all owners.
func (s *ContactService) ListAll(limit, offset int) ([]models.Contact, error) {
	return s.repo.ListAll(limit, offset)
}

// Search matches the query against first name, last name or email.
func (s *ContactService) Search(ownerID uint, query string) ([]models.Contact, error) {
	return s.repo.Search(ownerID, query)
}

// GetByID retrieves a contact regardless of owner.
func (s *ContactService) GetByID(id uint) (*models.Contact, error) {
	return s.repo.GetByID(id)
}

// Delete removes a contact by ID.
func (s *ContactService) Delete(id uint) error {
	return s.repo.Delete(id)
}

// UpcomingBirthdays returns contacts with a birthday in the next days.
func (s *ContactService) UpcomingBirthdays(ownerID uint, days int) ([]models.Contact, error) {
	return s.repo.UpcomingBirthdays(ownerID, days)
}

// Update applies a partial update to the contact the identifier resolves.
func (s *ContactService) Update(identifier string, ownerID uint, update *models.ContactUpdate) (*models.Contact, error) {
	return s.repo.Update(identifier, ownerID, update)
}
