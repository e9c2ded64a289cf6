package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageSendDefaultsToNote(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewMessageService(repo)
	ctx := context.Background()

	msg, err := svc.Send(ctx, SendMessageInput{
		SenderID:    "a",
		RecipientID: "b",
		Content:     "rent is due friday",
	})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeNote, msg.Type)
	assert.False(t, msg.IsRead)
	assert.NotEmpty(t, msg.ID)
}

func TestMessageSendValidation(t *testing.T) {
	svc := NewMessageService(newFakeMessageRepo())
	ctx := context.Background()

	_, err := svc.Send(ctx, SendMessageInput{SenderID: "a", RecipientID: "b", Content: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Send(ctx, SendMessageInput{RecipientID: "b", Content: "hi"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Send(ctx, SendMessageInput{
		SenderID: "a", RecipientID: "b", Content: "hi", Type: "carrier_pigeon",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMessageListByWorkspace(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewMessageService(repo)
	ctx := context.Background()

	wsID := "ws-1"
	otherWs := "ws-2"
	_, err := svc.Send(ctx, SendMessageInput{
		WorkspaceID: &wsID, SenderID: "a", RecipientID: "b", Content: "one",
	})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendMessageInput{
		WorkspaceID: &otherWs, SenderID: "a", RecipientID: "b", Content: "two",
	})
	require.NoError(t, err)

	msgs, err := svc.ListByWorkspace(ctx, wsID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "one", msgs[0].Content)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewMessageService(repo)
	ctx := context.Background()

	msg, err := svc.Send(ctx, SendMessageInput{
		SenderID: "a", RecipientID: "b", Content: "hi",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, msg.ID))

	stored, err := repo.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)

	// Marking an already-read message is a no-op, not an error.
	require.NoError(t, svc.MarkRead(ctx, msg.ID))
}

func TestMarkReadNotFound(t *testing.T) {
	svc := NewMessageService(newFakeMessageRepo())

	err := svc.MarkRead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
