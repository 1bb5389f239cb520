// Package permissions holds the static role tables that decide what a
// principal may read or change. Services consult it before touching storage;
// repositories turn the returned scopes into query filters.
package permissions

import (
	"loftalgerie/pkg/model"
)

type TaskPermissions struct {
	CanViewAll         bool `json:"can_view_all"`
	CanCreate          bool `json:"can_create"`
	CanAssign          bool `json:"can_assign"`
	CanEditAll         bool `json:"can_edit_all"`
	CanDelete          bool `json:"can_delete"`
	CanUpdateOwnStatus bool `json:"can_update_own_status"`
}

var taskPermissions = map[model.Role]TaskPermissions{
	model.RoleAdmin: {
		CanViewAll: true, CanCreate: true, CanAssign: true,
		CanEditAll: true, CanDelete: true, CanUpdateOwnStatus: true,
	},
	model.RoleManager: {
		CanViewAll: true, CanCreate: true, CanAssign: true,
		CanEditAll: true, CanDelete: true, CanUpdateOwnStatus: true,
	},
	model.RoleExecutive: {CanViewAll: true},
	model.RoleMember:    {CanUpdateOwnStatus: true},
}

// TaskPermissionsFor returns the task table row for role. Unknown roles,
// partners and clients get the zero value.
func TaskPermissionsFor(role model.Role) TaskPermissions {
	return taskPermissions[role]
}

func CanViewTask(p *model.Principal, task *model.Task) bool {
	if p == nil || task == nil {
		return false
	}
	perms := TaskPermissionsFor(p.Role)
	if perms.CanViewAll {
		return true
	}
	return perms.CanUpdateOwnStatus && task.AssignedTo != "" && task.AssignedTo == p.UserID
}

// CanApplyTaskUpdate allows editors any change; a member may only move the
// status of a task assigned to them.
func CanApplyTaskUpdate(p *model.Principal, task *model.Task, update *model.TaskUpdate) bool {
	if p == nil || task == nil || update == nil {
		return false
	}
	perms := TaskPermissionsFor(p.Role)
	if perms.CanEditAll {
		return true
	}
	if !perms.CanUpdateOwnStatus || task.AssignedTo != p.UserID {
		return false
	}
	return update.OnlyStatus()
}

func LoftScope(p *model.Principal) model.Scope {
	if p == nil {
		return model.Scope{Deny: true}
	}
	switch p.Role {
	case model.RoleAdmin, model.RoleManager, model.RoleExecutive, model.RoleMember,
		model.RoleClient, model.RoleSystem:
		return model.Scope{All: true}
	case model.RolePartner:
		return partnerScope(p)
	}
	return model.Scope{Deny: true}
}

func BookingScope(p *model.Principal) model.Scope {
	if p == nil {
		return model.Scope{Deny: true}
	}
	switch p.Role {
	case model.RoleAdmin, model.RoleManager, model.RoleExecutive, model.RoleMember, model.RoleSystem:
		return model.Scope{All: true}
	case model.RolePartner:
		return partnerScope(p)
	case model.RoleClient:
		if p.UserID == "" {
			return model.Scope{Deny: true}
		}
		return model.Scope{ClientID: p.UserID}
	}
	return model.Scope{Deny: true}
}

func TaskScope(p *model.Principal) model.Scope {
	if p == nil {
		return model.Scope{Deny: true}
	}
	if TaskPermissionsFor(p.Role).CanViewAll {
		return model.Scope{All: true}
	}
	if p.Role == model.RoleMember && p.UserID != "" {
		return model.Scope{AssigneeID: p.UserID}
	}
	return model.Scope{Deny: true}
}

func partnerScope(p *model.Principal) model.Scope {
	if p.OwnerID == "" {
		return model.Scope{Deny: true}
	}
	return model.Scope{OwnerID: p.OwnerID}
}

// InScope reports whether a row with the given owner, client and assignee
// falls inside scope. Used after single-document reads.
func InScope(scope model.Scope, ownerID, clientID, assigneeID string) bool {
	switch {
	case scope.Deny:
		return false
	case scope.All:
		return true
	case scope.OwnerID != "":
		return scope.OwnerID == ownerID
	case scope.ClientID != "":
		return scope.ClientID == clientID
	case scope.AssigneeID != "":
		return scope.AssigneeID == assigneeID
	}
	return false
}

func CanManageLofts(p *model.Principal) bool {
	return hasRole(p, model.RoleAdmin, model.RoleManager)
}

// CanReadOwners lets staff read every owner; a partner only reads its own.
func CanReadOwners(p *model.Principal, ownerID string) bool {
	if hasRole(p, model.RoleAdmin, model.RoleManager, model.RoleExecutive, model.RoleSystem) {
		return true
	}
	return p != nil && p.Role == model.RolePartner && p.OwnerID != "" && p.OwnerID == ownerID
}

func CanReadAudit(p *model.Principal) bool {
	return hasRole(p, model.RoleAdmin, model.RoleManager)
}

func CanExportAudit(p *model.Principal) bool {
	return hasRole(p, model.RoleAdmin)
}

func CanBroadcast(p *model.Principal) bool {
	return hasRole(p, model.RoleAdmin, model.RoleManager)
}

func CanCreateBooking(p *model.Principal) bool {
	return hasRole(p, model.RoleAdmin, model.RoleManager, model.RoleClient)
}

func CanEditBooking(p *model.Principal, booking *model.Booking) bool {
	if p == nil || booking == nil {
		return false
	}
	switch p.Role {
	case model.RoleAdmin, model.RoleManager:
		return true
	case model.RolePartner:
		return p.OwnerID != "" && booking.OwnerID == p.OwnerID
	case model.RoleClient:
		return booking.ClientID == p.UserID
	}
	return false
}

func CanDeleteBooking(p *model.Principal) bool {
	return hasRole(p, model.RoleAdmin)
}

// CanChangeBookingStatus checks who may move a booking to status to. It does
// not check that the transition itself is legal.
func CanChangeBookingStatus(p *model.Principal, booking *model.Booking, to string) bool {
	if p == nil || booking == nil {
		return false
	}
	switch p.Role {
	case model.RoleAdmin, model.RoleManager:
		return true
	case model.RolePartner:
		if p.OwnerID == "" || booking.OwnerID != p.OwnerID {
			return false
		}
		return to == model.BookingStatusConfirmed || to == model.BookingStatusCancelled
	case model.RoleClient:
		return booking.ClientID == p.UserID &&
			to == model.BookingStatusCancelled &&
			booking.Active()
	}
	return false
}

func hasRole(p *model.Principal, roles ...model.Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
