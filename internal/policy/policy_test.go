package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orghub-server/internal/models"
)

func strPtr(s string) *string { return &s }

func TestAdminOnlyPredicates(t *testing.T) {
	admin := Caller{ID: "a", Role: models.RoleAdmin}
	manager := Caller{ID: "m", Role: models.RoleManager}
	member := Caller{ID: "u", Role: models.RoleMember}

	assert.True(t, CanManageUsers(admin))
	assert.False(t, CanManageUsers(manager))
	assert.False(t, CanManageUsers(member))

	assert.True(t, CanManageDepartments(admin))
	assert.False(t, CanManageDepartments(manager))
}

func TestManagerPredicates(t *testing.T) {
	for _, fn := range []func(Caller) bool{CanCreateEvents, CanRecordFinance, CanViewFinance, CanCreateAnnouncements, CanManageReports} {
		assert.True(t, fn(Caller{Role: models.RoleAdmin}))
		assert.True(t, fn(Caller{Role: models.RoleManager}))
		assert.False(t, fn(Caller{Role: models.RoleMember}))
	}
}

func TestCanManageEvent(t *testing.T) {
	event := &models.Event{CreatedByID: "creator", DepartmentID: strPtr("dept-1")}

	assert.True(t, CanManageEvent(Caller{ID: "x", Role: models.RoleAdmin}, nil, event))
	assert.True(t, CanManageEvent(Caller{ID: "creator", Role: models.RoleManager}, nil, event))
	assert.True(t, CanManageEvent(Caller{ID: "other", Role: models.RoleManager}, strPtr("dept-1"), event))
	assert.False(t, CanManageEvent(Caller{ID: "other", Role: models.RoleManager}, strPtr("dept-2"), event))
	assert.False(t, CanManageEvent(Caller{ID: "other", Role: models.RoleManager}, nil, event))
	assert.False(t, CanManageEvent(Caller{ID: "creator", Role: models.RoleMember}, strPtr("dept-1"), event))
}

func TestCanManageAnnouncement(t *testing.T) {
	ann := &models.Announcement{CreatedByID: "author"}

	assert.True(t, CanManageAnnouncement(Caller{ID: "x", Role: models.RoleAdmin}, ann))
	assert.True(t, CanManageAnnouncement(Caller{ID: "author", Role: models.RoleManager}, ann))
	assert.False(t, CanManageAnnouncement(Caller{ID: "other", Role: models.RoleManager}, ann))
	assert.False(t, CanManageAnnouncement(Caller{ID: "author", Role: models.RoleMember}, ann))
}

func TestMessagePredicates(t *testing.T) {
	msg := &models.Message{
		SenderID: "sender",
		Recipients: []models.MessageRecipient{
			{UserID: "alice"},
			{UserID: "bob"},
		},
	}

	assert.True(t, CanViewMessage(Caller{ID: "sender"}, msg))
	assert.True(t, CanViewMessage(Caller{ID: "alice"}, msg))
	assert.False(t, CanViewMessage(Caller{ID: "eve"}, msg))

	entry := &models.MessageRecipient{UserID: "alice"}
	assert.True(t, CanActOnRecipientEntry(Caller{ID: "alice"}, entry))
	assert.False(t, CanActOnRecipientEntry(Caller{ID: "sender"}, entry))
}
