package services

import (
	"context"
	"testing"
	"time"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newConversationFixture(t *testing.T) (*ConversationService, *fakeUserRepo, *fakeMessageRepo) {
	t.Helper()
	users := newFakeUserRepo()
	messages := newFakeMessageRepo()
	svc := NewConversationService(messages, users)
	return svc, users, messages
}

func seedMessage(t *testing.T, messages *fakeMessageRepo, sender, recipient primitive.ObjectID, text string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{Sender: sender, Recipient: recipient, Text: text, CreatedAt: at}
	require.NoError(t, messages.Create(context.Background(), m))
	return m
}

func TestSendValidation(t *testing.T) {
	svc, users, _ := newConversationFixture(t)
	alice := users.mustAddUser("alice")
	bob := users.mustAddUser("bob")

	_, err := svc.Send(context.Background(), alice.ID, bob.ID, SendParams{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Send(context.Background(), alice.ID, primitive.NewObjectID(), SendParams{Text: "hi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// A sticker carries no text and no file.
	msg, err := svc.Send(context.Background(), alice.ID, bob.ID, SendParams{MediaType: "sticker", MediaURL: "/stickers/wave.png"})
	require.NoError(t, err)
	assert.False(t, msg.Read)

	msg, err = svc.Send(context.Background(), alice.ID, bob.ID, SendParams{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, msg.Sender)
}

func TestThreadMarksIncomingRead(t *testing.T) {
	svc, users, messages := newConversationFixture(t)
	alice := users.mustAddUser("alice")
	bob := users.mustAddUser("bob")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, messages, alice.ID, bob.ID, "one", base)
	seedMessage(t, messages, bob.ID, alice.ID, "two", base.Add(time.Minute))
	seedMessage(t, messages, alice.ID, bob.ID, "three", base.Add(2*time.Minute))

	thread, err := svc.Thread(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "one", thread[0].Text)
	assert.Equal(t, "three", thread[2].Text)

	// Viewing the thread marks alice's messages to bob as read; bob's own
	// outgoing message stays untouched.
	stored, err := messages.GetBetween(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	for _, m := range stored {
		if m.Recipient == bob.ID {
			assert.True(t, m.Read)
		} else {
			assert.False(t, m.Read)
		}
	}
}

func TestListConversationsOrderingAndUnread(t *testing.T) {
	svc, users, messages := newConversationFixture(t)
	me := users.mustAddUser("me")
	early := users.mustAddUser("early")
	late := users.mustAddUser("late")
	quiet := users.mustAddUser("quiet")

	// quiet is a friend with no messages; the others only appear through
	// message history.
	stored, _ := users.GetByID(context.Background(), me.ID)
	stored.Friends = []primitive.ObjectID{quiet.ID}
	require.NoError(t, users.Save(context.Background(), stored))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, messages, early.ID, me.ID, "old news", base)
	seedMessage(t, messages, late.ID, me.ID, "fresh", base.Add(time.Hour))

	summaries, err := svc.ListConversations(context.Background(), me.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "late", summaries[0].Username)
	assert.Equal(t, "early", summaries[1].Username)
	assert.Equal(t, "quiet", summaries[2].Username)

	assert.True(t, summaries[0].Unread)
	assert.Equal(t, "fresh", summaries[0].LastMessage)
	assert.Equal(t, "Start a conversation", summaries[2].LastMessage)
	assert.True(t, summaries[2].LastMessageTime.IsZero())
	assert.False(t, summaries[2].Unread)
}

func TestListConversationsMediaPreviews(t *testing.T) {
	svc, users, messages := newConversationFixture(t)
	me := users.mustAddUser("me")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		mediaType string
		want      string
	}{
		{"image", "📷 Image"},
		{"video", "🎥 Video"},
		{"sticker", "✨ Sticker"},
		{"document", "📄 Document"},
	}
	for i, tc := range cases {
		partner := users.mustAddUser("partner" + tc.mediaType)
		m := &models.Message{
			Sender:    partner.ID,
			Recipient: me.ID,
			MediaURL:  "/uploads/x",
			MediaType: tc.mediaType,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, messages.Create(context.Background(), m))
	}

	summaries, err := svc.ListConversations(context.Background(), me.ID)
	require.NoError(t, err)
	require.Len(t, summaries, len(cases))

	byUser := map[string]string{}
	for _, s := range summaries {
		byUser[s.Username] = s.LastMessage
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, byUser["partner"+tc.mediaType])
	}
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	svc, users, messages := newConversationFixture(t)
	alice := users.mustAddUser("alice")
	bob := users.mustAddUser("bob")

	msg, err := svc.Send(context.Background(), alice.ID, bob.ID, SendParams{Text: "hi"})
	require.NoError(t, err)

	err = svc.DeleteMessage(context.Background(), bob.ID, msg.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	require.NoError(t, svc.DeleteMessage(context.Background(), alice.ID, msg.ID))
	_, err = messages.GetByID(context.Background(), msg.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestClearConversation(t *testing.T) {
	svc, users, messages := newConversationFixture(t)
	alice := users.mustAddUser("alice")
	bob := users.mustAddUser("bob")
	carol := users.mustAddUser("carol")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, messages, alice.ID, bob.ID, "one", base)
	seedMessage(t, messages, bob.ID, alice.ID, "two", base.Add(time.Minute))
	seedMessage(t, messages, alice.ID, carol.ID, "keep", base.Add(2*time.Minute))

	require.NoError(t, svc.ClearConversation(context.Background(), alice.ID, bob.ID))

	gone, err := messages.GetBetween(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := messages.GetBetween(context.Background(), alice.ID, carol.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
