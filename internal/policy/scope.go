package policy

import "github.com/facilityhub/helpdesk/internal/domain"

// Entity identifies a row type the visibility filter can scope.
type Entity string

const (
	EntityTicket          Entity = "ticket"
	EntityMaterialRequest Entity = "material_request"
	EntityBuilding        Entity = "building"
	EntityCategory        Entity = "category"
)

// Scope is the predicate restricting which rows an actor may enumerate or
// fetch. A zero Scope matches everything; restriction fields are conjunctive,
// so intersecting a Scope with caller-supplied filters can only narrow the
// result set. MatchNone overrides every other field.
type Scope struct {
	MatchNone bool

	// RequesterID, when set, restricts tickets to the given requester.
	RequesterID *string

	// BuildingIDs, when non-nil, restricts tickets to the given buildings.
	// A non-nil empty slice matches nothing.
	BuildingIDs []string

	// CategoryIDs, when non-nil, restricts tickets to the given categories.
	// A non-nil empty slice matches nothing.
	CategoryIDs []string

	// AssigneeID, when set, restricts tickets to the given assignee.
	AssigneeID *string
}

// MatchAll is the unrestricted scope.
func MatchAll() Scope { return Scope{} }

// MatchNothing is the empty scope; queries built from it must not return rows.
func MatchNothing() Scope { return Scope{MatchNone: true} }

// IsEmpty reports whether the scope can never match a row. A non-nil empty
// supervision restriction is empty: an unsupervised supervisor sees nothing,
// not everything.
func (s Scope) IsEmpty() bool {
	if s.MatchNone {
		return true
	}
	if s.BuildingIDs != nil && len(s.BuildingIDs) == 0 {
		return true
	}
	if s.CategoryIDs != nil && len(s.CategoryIDs) == 0 {
		return true
	}
	return false
}

// AssignedTo narrows the scope to tickets assigned to the given staff user.
// Call sites that list an agent's personal dashboard or tab counts apply
// this; the base listing does not.
func (s Scope) AssignedTo(staffID string) Scope {
	s.AssigneeID = &staffID
	return s
}

// ScopeFor computes the visibility predicate for the actor over the given
// entity type. The policy is fail-closed: a missing role or an empty
// supervision set yields MatchNothing, never an unscoped query. Callers must
// apply the returned scope before any optional filter.
func ScopeFor(actor domain.Actor, entity Entity) Scope {
	switch actor.Type {
	case domain.SubjectTypeClient:
		if actor.ID == "" {
			return MatchNothing()
		}
		if entity != EntityTicket {
			// Clients only ever query their own tickets.
			return MatchNothing()
		}
		requester := actor.ID
		return Scope{RequesterID: &requester}

	case domain.SubjectTypeStaff:
		return staffScope(actor, entity)

	default:
		// No authenticated actor: queries must not silently run unscoped.
		return MatchNothing()
	}
}

func staffScope(actor domain.Actor, entity Entity) Scope {
	switch actor.Role {
	case domain.StaffRoleAdmin:
		return MatchAll()

	case domain.StaffRoleAgent:
		// Agents see the full ticket surface by default; dashboards narrow
		// with Scope.AssignedTo.
		return MatchAll()

	case domain.StaffRoleBuildingSupervisor:
		if entity == EntityBuilding || entity == EntityCategory {
			return MatchAll()
		}
		ids := actor.SupervisedBuildingIDs
		if ids == nil {
			ids = []string{}
		}
		return Scope{BuildingIDs: ids}

	case domain.StaffRoleCategorySupervisor:
		if entity == EntityBuilding || entity == EntityCategory {
			return MatchAll()
		}
		ids := actor.SupervisedCategoryIDs
		if ids == nil {
			ids = []string{}
		}
		return Scope{CategoryIDs: ids}

	default:
		// Staff with no role assigned get zero visibility.
		return MatchNothing()
	}
}

// Matches evaluates the scope against a single ticket. It is the row-level
// counterpart of the query predicate and must agree with it.
func (s Scope) Matches(t *domain.Ticket) bool {
	if s.IsEmpty() || t == nil {
		return false
	}
	if s.RequesterID != nil {
		if t.RequesterID == nil || *t.RequesterID != *s.RequesterID {
			return false
		}
	}
	if s.BuildingIDs != nil {
		if t.BuildingID == nil || !containsID(s.BuildingIDs, *t.BuildingID) {
			return false
		}
	}
	if s.CategoryIDs != nil {
		if t.CategoryID == nil || !containsID(s.CategoryIDs, *t.CategoryID) {
			return false
		}
	}
	if s.AssigneeID != nil {
		if t.AssigneeID == nil || *t.AssigneeID != *s.AssigneeID {
			return false
		}
	}
	return true
}

// Authorize checks whether the actor may operate on the ticket. It is the
// single-row form of ScopeFor and returns ErrUnauthorized on mismatch.
func Authorize(actor domain.Actor, ticket *domain.Ticket) error {
	if ScopeFor(actor, EntityTicket).Matches(ticket) {
		return nil
	}
	return ErrUnauthorized
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
