package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// validate is shared by the entity Validate methods; validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())
