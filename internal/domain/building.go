package domain

import "time"

// BuildingType classifies a facility.
type BuildingType string

const (
	BuildingTypeOffice      BuildingType = "OFFICE"
	BuildingTypeResidential BuildingType = "RESIDENTIAL"
	BuildingTypeWarehouse   BuildingType = "WAREHOUSE"
	BuildingTypeOther       BuildingType = "OTHER"
)

// Building is a facility tickets are raised against. Supervision is a
// many-to-many link to staff users.
type Building struct {
	ID        string
	Code      string
	Name      string
	Type      BuildingType
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
