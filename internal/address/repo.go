package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petitmarche/backend/pkg/db/models"
)

// Repository reads customer addresses.
type Repository interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an address repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindByIDAndUser scopes the lookup to the owner so a foreign address id
// behaves exactly like a missing one.
func (r *repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
