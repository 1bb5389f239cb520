package model

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleExecutive Role = "executive"
	RoleMember    Role = "member"
	RolePartner   Role = "partner"
	RoleClient    Role = "client"
	// RoleSystem is carried by service-to-service calls only.
	RoleSystem Role = "system"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleExecutive, RoleMember, RolePartner, RoleClient, RoleSystem:
		return true
	}
	return false
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  string `json:"user_id"`
	Role    Role   `json:"role"`
	OwnerID string `json:"owner_id,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Scope narrows a query to the rows a principal may see.
type Scope struct {
	All        bool
	OwnerID    string
	ClientID   string
	AssigneeID string
	Deny       bool
}
