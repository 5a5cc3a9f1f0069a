package repositories

import (
	"fmt"
	"sync"

	"contactbook/internal/models"

	"gorm.io/gorm"
)

// GORMRoleRepository looks up roles by name through a process-wide
// read-through cache. Role rows are seeded once at migration time and
// never mutated afterwards, which is what makes the cache safe; if roles
// ever become editable at runtime the cache has to go.
type GORMRoleRepository struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]*models.Role
}

// NewGORMRoleRepository creates a new instance of GORMRoleRepository.
func NewGORMRoleRepository(db *gorm.DB) *GORMRoleRepository {
	return &GORMRoleRepository{
		db:    db,
		cache: make(map[string]*models.Role),
	}
}

// GetByName returns the role with the given name, consulting the cache
// first. Returns ErrRoleNotFound if no such role exists.
func (r *GORMRoleRepository) GetByName(name string) (*models.Role, error) {
	r.mu.RLock()
	role, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return role, nil
	}

	var fetched models.Role
	if err := r.db.First(&fetched, "name = ?", name).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("role %s: %w", name, ErrRoleNotFound)
		}
		return nil, fmt.Errorf("failed to get role by name %s: %w", name, err)
	}

	r.mu.Lock()
	r.cache[name] = &fetched
	r.mu.Unlock()
	return &fetched, nil
}

// Seed inserts the USER and ADMIN rows if they are not present yet.
// Safe to call on every startup.
func (r *GORMRoleRepository) Seed() error {
	roles := []models.Role{
		{Name: models.RoleUser},
		{Name: models.RoleAdmin},
	}
	for i := range roles {
		if err := r.db.Where("name = ?", roles[i].Name).FirstOrCreate(&roles[i]).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", roles[i].Name, err)
		}
	}
	return nil
}
