package auth

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Actor identifies the caller of a core operation. Services receive it as an
// explicit parameter; nothing in the domain layer reads identity from ambient
// state.
type Actor struct {
	UserID  string
	Role    string
	StoreID string
}

func (a Actor) IsOwner() bool {
	return a.Role == RoleOwner
}

func (a Actor) IsManager() bool {
	return a.Role == RoleManager
}

// CanManageStore reports whether the actor may act in a manager capacity for
// the given store: owners anywhere, managers only for their home store.
func (a Actor) CanManageStore(storeID string) bool {
	if a.Role == RoleOwner {
		return true
	}
	return a.Role == RoleManager && a.StoreID != "" && a.StoreID == storeID
}

func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}
