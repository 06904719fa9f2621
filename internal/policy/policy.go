// Package policy centralizes the authorization predicates that were
// previously re-implemented inline per handler. Handlers build a Caller
// from the authenticated request and ask this package for a decision.
package policy

import (
	"orghub-server/internal/models"
)

// Caller identifies who is performing an operation. It is passed
// explicitly; nothing here reads ambient request state.
type Caller struct {
	ID   string
	Role models.Role
}

// CanManageUsers reports whether the caller may create, update or delete
// user accounts.
func CanManageUsers(caller Caller) bool {
	return caller.Role == models.RoleAdmin
}

// CanManageDepartments reports whether the caller may create, update or
// delete departments.
func CanManageDepartments(caller Caller) bool {
	return caller.Role == models.RoleAdmin
}

// CanManageEvent reports whether the caller may modify or cancel the given
// event. Admins always may; managers only for events they created or that
// belong to their own department.
func CanManageEvent(caller Caller, callerDeptID *string, event *models.Event) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		if event.CreatedByID == caller.ID {
			return true
		}
		return callerDeptID != nil && event.DepartmentID != nil && *callerDeptID == *event.DepartmentID
	default:
		return false
	}
}

// CanCreateEvents reports whether the caller may create events.
func CanCreateEvents(caller Caller) bool {
	return caller.Role == models.RoleAdmin || caller.Role == models.RoleManager
}

// CanMarkAttendance reports whether the caller may record attendance for
// the given event. Same rule as event management.
func CanMarkAttendance(caller Caller, callerDeptID *string, event *models.Event) bool {
	return CanManageEvent(caller, callerDeptID, event)
}

// CanRecordFinance reports whether the caller may append ledger entries.
func CanRecordFinance(caller Caller) bool {
	return caller.Role == models.RoleAdmin || caller.Role == models.RoleManager
}

// CanViewFinance reports whether the caller may read the ledger.
func CanViewFinance(caller Caller) bool {
	return caller.Role == models.RoleAdmin || caller.Role == models.RoleManager
}

// CanManageAnnouncement reports whether the caller may edit, publish or
// delete the given announcement.
func CanManageAnnouncement(caller Caller, ann *models.Announcement) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return ann.CreatedByID == caller.ID
	default:
		return false
	}
}

// CanCreateAnnouncements reports whether the caller may create
// announcements.
func CanCreateAnnouncements(caller Caller) bool {
	return caller.Role == models.RoleAdmin || caller.Role == models.RoleManager
}

// CanManageReports reports whether the caller may configure scheduled
// reports.
func CanManageReports(caller Caller) bool {
	return caller.Role == models.RoleAdmin || caller.Role == models.RoleManager
}

// CanViewMessage reports whether the caller is a participant of the given
// message: its sender or one of its recipients.
func CanViewMessage(caller Caller, msg *models.Message) bool {
	if msg.SenderID == caller.ID {
		return true
	}
	for _, r := range msg.Recipients {
		if r.UserID == caller.ID {
			return true
		}
	}
	return false
}

// CanActOnRecipientEntry reports whether the caller may mutate the given
// recipient entry (read, star, delete). Each entry belongs to exactly one
// recipient.
func CanActOnRecipientEntry(caller Caller, entry *models.MessageRecipient) bool {
	return entry.UserID == caller.ID
}
