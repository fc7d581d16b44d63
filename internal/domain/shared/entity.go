package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the surrogate key and row timestamps every persisted
// entity shares. GORM maintains CreatedAt/UpdatedAt through its conventions;
// the ID is assigned up front so domain code can reference an aggregate
// before it is saved.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity assigns a fresh identity and stamps both timestamps
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
