package service

import (
	"testing"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsScopedToRecipient(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.notification.CreateForUser(userActor.Identifier, &model.Notification{
		Title:   "Task completed",
		Message: "Return laptop was completed.",
		Type:    model.NotificationTaskCompleted,
	}))

	mine, err := env.notification.List(userActor, false, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other := auth.Actor{Identifier: "someone@company.co.za", Roles: []string{auth.RoleUser}}
	theirs, err := env.notification.List(other, false, 10)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestRoleNotificationVisibleToRoleMembers(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.notification.CreateForRole(auth.RoleHR, &model.Notification{
		Title:   "Approval required",
		Message: "An offboarding awaits approval.",
		Type:    model.NotificationProcessStarted,
	}))

	visible, err := env.notification.List(hrActor, false, 10)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	hidden, err := env.notification.List(userActor, false, 10)
	require.NoError(t, err)
	assert.Empty(t, hidden)
}

func TestRoleNotificationSharesReadState(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.notification.CreateForRole(auth.RoleHR, &model.Notification{
		Title:   "Approval required",
		Message: "An offboarding awaits approval.",
		Type:    model.NotificationProcessStarted,
	}))

	notifications, err := env.notification.List(hrActor, true, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, env.notification.MarkRead(notifications[0].ID, hrActor))

	// 同角色的另一名成员看到的也是已读
	secondHR := auth.Actor{Identifier: "hr2@company.co.za", Roles: []string{auth.RoleHR}}
	count, err := env.notification.UnreadCount(secondHR)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadForbiddenForOthersNotification(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.notification.CreateForUser(hrActor.Identifier, &model.Notification{
		Title:   "Task completed",
		Message: "Done.",
		Type:    model.NotificationTaskCompleted,
	}))

	notifications, err := env.notification.List(hrActor, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	err = env.notification.MarkRead(notifications[0].ID, userActor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.notification.CreateForUser(userActor.Identifier, &model.Notification{
			Title:   "Reminder",
			Message: "A task needs attention.",
			Type:    model.NotificationReminder,
		}))
	}

	count, err := env.notification.UnreadCount(userActor)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	require.NoError(t, env.notification.MarkAllRead(userActor))

	count, err = env.notification.UnreadCount(userActor)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCleanupRemovesOnlyOldReadNotifications(t *testing.T) {
	env := newTestEnv(t)
	old := time.Now().AddDate(0, 0, -40)

	readOld := &model.Notification{
		Title: "Old read", Message: "m", Type: model.NotificationReminder,
		RecipientUser: userActor.Identifier, Priority: model.PriorityNormal,
		IsRead: true, CreatedOn: old,
	}
	unreadOld := &model.Notification{
		Title: "Old unread", Message: "m", Type: model.NotificationReminder,
		RecipientUser: userActor.Identifier, Priority: model.PriorityNormal,
		CreatedOn: old,
	}
	readRecent := &model.Notification{
		Title: "Recent read", Message: "m", Type: model.NotificationReminder,
		RecipientUser: userActor.Identifier, Priority: model.PriorityNormal,
		IsRead: true, CreatedOn: time.Now(),
	}
	require.NoError(t, env.db.Create(readOld).Error)
	require.NoError(t, env.db.Create(unreadOld).Error)
	require.NoError(t, env.db.Create(readRecent).Error)

	purged, err := env.notification.Cleanup(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	remaining, err := env.notification.List(userActor, false, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestNotificationDefaultsPriorityAndTimestamp(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.notification.CreateForUser(userActor.Identifier, &model.Notification{
		Title:   "Reminder",
		Message: "m",
		Type:    model.NotificationReminder,
	}))

	notifications, err := env.notification.List(userActor, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.PriorityNormal, notifications[0].Priority)
	assert.False(t, notifications[0].CreatedOn.IsZero())
}
