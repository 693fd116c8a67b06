package services

import (
	"context"
	"testing"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEmitSkipsSelf(t *testing.T) {
	notifs := newFakeNotificationRepo()
	svc := NewNotificationService(notifs)
	me := primitive.NewObjectID()

	require.NoError(t, svc.Emit(context.Background(), me, me, models.NotificationLike, primitive.NilObjectID))
	got, err := svc.ListFor(context.Background(), me)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmitRejectsUnknownType(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo())
	recipient := primitive.NewObjectID()
	sender := primitive.NewObjectID()

	err := svc.Emit(context.Background(), recipient, sender, "POKE", primitive.NilObjectID)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	got, err := svc.ListFor(context.Background(), recipient)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmitCallPlaced(t *testing.T) {
	notifs := newFakeNotificationRepo()
	svc := NewNotificationService(notifs)
	caller := primitive.NewObjectID()
	recipient := primitive.NewObjectID()

	outgoing, err := svc.EmitCall(context.Background(), caller, recipient, false)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationCallOutgoing, outgoing.Type)
	assert.Equal(t, caller, outgoing.Recipient)
	// The caller's own log entry must never show as unread.
	assert.True(t, outgoing.Read)

	incoming := notifs.byType(models.NotificationCallIncoming)
	require.Len(t, incoming, 1)
	assert.Equal(t, recipient, incoming[0].Recipient)
	assert.Equal(t, caller, incoming[0].Sender)
	assert.False(t, incoming[0].Read)
}

func TestEmitCallMissed(t *testing.T) {
	notifs := newFakeNotificationRepo()
	svc := NewNotificationService(notifs)
	caller := primitive.NewObjectID()
	recipient := primitive.NewObjectID()

	missed, err := svc.EmitCall(context.Background(), caller, recipient, true)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationCallMissed, missed.Type)
	assert.False(t, missed.Read)

	assert.Empty(t, notifs.byType(models.NotificationCallIncoming))
	assert.Empty(t, notifs.byType(models.NotificationCallOutgoing))
}

func TestEmitCallSelfRejected(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo())
	me := primitive.NewObjectID()

	_, err := svc.EmitCall(context.Background(), me, me, false)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestMarkAllRead(t *testing.T) {
	notifs := newFakeNotificationRepo()
	svc := NewNotificationService(notifs)
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	require.NoError(t, svc.Emit(context.Background(), me, other, models.NotificationLike, primitive.NilObjectID))
	require.NoError(t, svc.Emit(context.Background(), me, other, models.NotificationComment, primitive.NewObjectID()))

	require.NoError(t, svc.MarkAllRead(context.Background(), me))
	got, err := svc.ListFor(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, n := range got {
		assert.True(t, n.Read)
	}
}

func TestDeleteNotificationRecipientOnly(t *testing.T) {
	notifs := newFakeNotificationRepo()
	svc := NewNotificationService(notifs)
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	require.NoError(t, svc.Emit(context.Background(), me, other, models.NotificationLike, primitive.NilObjectID))
	got, err := svc.ListFor(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, got, 1)

	err = svc.Delete(context.Background(), other, got[0].ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	require.NoError(t, svc.Delete(context.Background(), me, got[0].ID))
	got, err = svc.ListFor(context.Background(), me)
	require.NoError(t, err)
	assert.Empty(t, got)
}
