package repositories

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"contactbook/internal/models"

	"gorm.io/gorm"
)

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB

	// now is swappable so birthday-window tests can pin the clock.
	now func() time.Time
}

// NewGORMContactRepository creates a new instance of GORMContactRepository.
func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{
		db:  db,
		now: time.Now,
	}
}

// Create inserts a new contact owned by ownerID.
func (r *GORMContactRepository) Create(contactCreate *models.ContactCreate, ownerID uint) (*models.Contact, error) {
	contact := &models.Contact{
		FirstName: contactCreate.FirstName,
		LastName:  contactCreate.LastName,
		Email:     contactCreate.Email,
		Birthday:  contactCreate.Birthday,
		OwnerID:   ownerID,
	}
	if err := r.db.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// List returns the owner's contacts, paginated by limit/offset.
func (r *GORMContactRepository) List(ownerID uint, limit, offset int) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.Where("owner_id = ?", ownerID).
		Limit(limit).Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts for owner %d: %w", ownerID, err)
	}
	return contacts, nil
}

// ListAll returns contacts across all owners. Admin-only at the route level.
func (r *GORMContactRepository) ListAll(limit, offset int) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list all contacts: %w", err)
	}
	return contacts, nil
}

// Search performs a case-insensitive substring match against first name,
// last name or email, scoped to the owner.
func (r *GORMContactRepository) Search(ownerID uint, query string) ([]models.Contact, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var contacts []models.Contact
	err := r.db.Where("owner_id = ?", ownerID).
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts for owner %d: %w", ownerID, err)
	}
	return contacts, nil
}

// GetByID retrieves a contact by ID regardless of owner. Returns
// (nil, nil) when no contact matches.
func (r *GORMContactRepository) GetByID(id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.First(&contact, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact %d: %w", id, err)
	}
	return &contact, nil
}

// GetByIDAndOwner retrieves a contact by ID scoped to the owner. Returns
// (nil, nil) when no contact matches.
func (r *GORMContactRepository) GetByIDAndOwner(ownerID, id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.First(&contact, "owner_id = ? AND id = ?", ownerID, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact %d for owner %d: %w", id, ownerID, err)
	}
	return &contact, nil
}

// Delete removes a contact by ID. Deleting a nonexistent ID is a silent
// no-op, not an error.
func (r *GORMContactRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Contact{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	return nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday falls
// within the next `days` days, treating birthdays as year-agnostic
// day-of-year positions. When the window crosses the year boundary
// (Dec -> Jan) the match wraps around. Leap-year drift between the stored
// year and the current one is an accepted approximation.
func (r *GORMContactRepository) UpcomingBirthdays(ownerID uint, days int) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.Where("owner_id = ?", ownerID).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to load contacts for owner %d: %w", ownerID, err)
	}

	today := r.now()
	todayDOY := today.YearDay()
	targetDOY := today.AddDate(0, 0, days).YearDay()

	matched := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		doy := c.Birthday.YearDay()
		if todayDOY <= targetDOY {
			if doy >= todayDOY && doy <= targetDOY {
				matched = append(matched, c)
			}
		} else {
			// window wraps the year boundary
			if doy >= todayDOY || doy <= targetDOY {
				matched = append(matched, c)
			}
		}
	}
	return matched, nil
}

// FindByIdentifier resolves a contact from a loose identifier: a numeric
// ID, an email, a first name, or "first last". When several contacts
// match, the lowest ID wins so the result is deterministic. Returns
// (nil, nil) when nothing matches.
func (r *GORMContactRepository) FindByIdentifier(ownerID uint, identifier string) (*models.Contact, error) {
	// A failed parse leaves id at 0, which never matches a real row.
	id, _ := strconv.ParseUint(identifier, 10, 64)

	var contact models.Contact
	err := r.db.Where("owner_id = ?", ownerID).
		Where("id = ? OR email = ? OR first_name = ? OR (first_name || ' ' || last_name) = ?",
			id, identifier, identifier, identifier).
		Order("id").
		First(&contact).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contact %q for owner %d: %w", identifier, ownerID, err)
	}
	return &contact, nil
}

// Update resolves the contact via FindByIdentifier and applies only the
// fields present in the update. A new email that already belongs to a
// different contact (any owner) fails with ErrEmailInUse and leaves the
// row untouched. Returns (nil, nil) when the identifier resolves nothing.
func (r *GORMContactRepository) Update(identifier string, ownerID uint, update *models.ContactUpdate) (*models.Contact, error) {
	contact, err := r.FindByIdentifier(ownerID, identifier)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}

	if update.Email != nil {
		var existing models.Contact
		err := r.db.First(&existing, "email = ?", *update.Email).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if err == nil && existing.ID != contact.ID {
			return nil, ErrEmailInUse
		}
	}

	values := map[string]interface{}{}
	if update.FirstName != nil {
		values["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		values["last_name"] = *update.LastName
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.Birthday != nil {
		values["birthday"] = *update.Birthday
	}
	if len(values) == 0 {
		return contact, nil
	}

	if err := r.db.Model(contact).Updates(values).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact %d: %w", contact.ID, err)
	}

	return r.GetByID(contact.ID)
}
