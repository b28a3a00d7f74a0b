package domain

// SubjectType discriminates authenticated parties.
type SubjectType string

const (
	SubjectTypeClient SubjectType = "CLIENT"
	SubjectTypeStaff  SubjectType = "STAFF"
)

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleAdmin              StaffRole = "ADMIN"
	StaffRoleAgent              StaffRole = "AGENT"
	StaffRoleCategorySupervisor StaffRole = "CATEGORY_SUPERVISOR"
	StaffRoleBuildingSupervisor StaffRole = "BUILDING_SUPERVISOR"
)

// Actor is the authenticated party performing an operation. It carries the
// resolved supervision sets so policy decisions never touch storage or
// ambient session state.
type Actor struct {
	Type SubjectType
	ID   string

	// Role is set only for staff actors. An empty role on a staff actor is
	// treated as zero visibility for role-scoped entities.
	Role StaffRole

	// SupervisedBuildingIDs holds the buildings a BUILDING_SUPERVISOR
	// oversees; empty means the actor sees no building-scoped rows.
	SupervisedBuildingIDs []string

	// SupervisedCategoryIDs holds the categories a CATEGORY_SUPERVISOR
	// oversees; empty means the actor sees no category-scoped rows.
	SupervisedCategoryIDs []string
}

// IsStaff reports whether the actor is an internal staff user.
func (a Actor) IsStaff() bool {
	return a.Type == SubjectTypeStaff
}

// IsAdmin reports whether the actor is an unscoped administrator.
func (a Actor) IsAdmin() bool {
	return a.Type == SubjectTypeStaff && a.Role == StaffRoleAdmin
}

// ClientActor builds an actor for an authenticated client.
func ClientActor(clientID string) Actor {
	return Actor{Type: SubjectTypeClient, ID: clientID}
}

// StaffActor builds an actor for an authenticated staff user.
func StaffActor(staff *StaffUser, buildingIDs, categoryIDs []string) Actor {
	return Actor{
		Type:                  SubjectTypeStaff,
		ID:                    staff.ID,
		Role:                  staff.Role,
		SupervisedBuildingIDs: buildingIDs,
		SupervisedCategoryIDs: categoryIDs,
	}
}
