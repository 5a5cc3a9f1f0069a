package repositories

import "contactbook/internal/models"

// ContactRepository defines the interface for contact data access.
//
// Lookups return (nil, nil) when nothing matches. Delete silently
// succeeds when the row does not exist.
type ContactRepository interface {
	Create(contactCreate *models.ContactCreate, ownerID uint) (*models.Contact, error)
	List(ownerID uint, limit, offset int) ([]models.Contact, error)
	ListAll(limit, offset int) ([]models.Contact, error)
	Search(ownerID uint, query string) ([]models.Contact, error)
	GetByID(id uint) (*models.Contact, error)
	GetByIDAndOwner(ownerID, id uint) (*models.Contact, error)
	Delete(id uint) error
	UpcomingBirthdays(ownerID uint, days int) ([]models.Contact, error)
	FindByIdentifier(ownerID uint, identifier string) (*models.Contact, error)
	Update(identifier string, ownerID uint, update *models.ContactUpdate) (*models.Contact, error)
}
