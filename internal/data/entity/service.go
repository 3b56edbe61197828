package entity

import (
	"github.com/google/uuid"
)

type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
)

// Service is a bookable court offering. The catalog is managed by the
// service-catalog collaborator; this core only reads it.
type Service struct {
	Base
	AdminID     uuid.UUID     `db:"admin_id"`
	Name        string        `db:"service_name"`
	Description string        `db:"description"`
	Price       float64       `db:"price"`
	Status      ServiceStatus `db:"status"`
}
