package services

import (
	"testing"

	"learnhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessagePersists(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	message, err := svc.SendMessage(alice.ID, &SendMessageRequest{
		ReceiverID: bob.ID,
		Text:       "hey, did you finish chapter 2?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageText, message.MessageType)
	assert.False(t, message.IsRead)
	assert.Equal(t, alice.Email, message.Sender.Email)
}

func TestSendMessageMediaType(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	message, err := svc.SendMessage(alice.ID, &SendMessageRequest{
		ReceiverID: bob.ID,
		MediaURL:   "/uploads/diagram.png",
		MediaType:  "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageMedia, message.MessageType)
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	_, err := svc.SendMessage(alice.ID, &SendMessageRequest{ReceiverID: 999, Text: "hello?"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetConversationBothDirections(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)
	carol := seedUser(t, db, "carol@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	_, err := svc.SendMessage(alice.ID, &SendMessageRequest{ReceiverID: bob.ID, Text: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, &SendMessageRequest{ReceiverID: alice.ID, Text: "two"})
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{ReceiverID: carol.ID, Text: "unrelated"})
	require.NoError(t, err)

	messages, err := svc.GetConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text)
}

func TestGetConversationsLastMessageAndUnread(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)
	carol := seedUser(t, db, "carol@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	_, err := svc.SendMessage(bob.ID, &SendMessageRequest{ReceiverID: alice.ID, Text: "first"})
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, &SendMessageRequest{ReceiverID: alice.ID, Text: "second"})
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, &SendMessageRequest{ReceiverID: carol.ID, Text: "hi carol"})
	require.NoError(t, err)

	conversations, err := svc.GetConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	byPartner := make(map[string]Conversation)
	for _, conv := range conversations {
		byPartner[conv.OtherUser.Email] = conv
	}

	withBob := byPartner["bob@example.com"]
	assert.Equal(t, "second", withBob.LastMessage.Text)
	assert.EqualValues(t, 2, withBob.UnreadCount)

	withCarol := byPartner["carol@example.com"]
	assert.Equal(t, "hi carol", withCarol.LastMessage.Text)
	assert.EqualValues(t, 0, withCarol.UnreadCount, "own messages are not unread for the sender")
}

func TestMarkAsReadIsReceiverOnly(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	message, err := svc.SendMessage(alice.ID, &SendMessageRequest{ReceiverID: bob.ID, Text: "ping"})
	require.NoError(t, err)

	// The sender cannot mark their own outgoing message as read.
	assert.ErrorIs(t, svc.MarkAsRead(message.ID, alice.ID), ErrMessageNotFound)

	require.NoError(t, svc.MarkAsRead(message.ID, bob.ID))
	var stored models.Message
	require.NoError(t, db.First(&stored, message.ID).Error)
	assert.True(t, stored.IsRead)
}

func TestMarkConversationRead(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.SendMessage(bob.ID, &SendMessageRequest{ReceiverID: alice.ID, Text: text})
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkConversationRead(alice.ID, bob.ID))

	count, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestUnreadCountFallsBackToDatabase(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	_, err := svc.SendMessage(bob.ID, &SendMessageRequest{ReceiverID: alice.ID, Text: "unread"})
	require.NoError(t, err)

	count, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	message, err := svc.SendMessage(alice.ID, &SendMessageRequest{ReceiverID: bob.ID, Text: "oops"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteMessage(message.ID, bob.ID), ErrMessageNotFound)
	require.NoError(t, svc.DeleteMessage(message.ID, alice.ID))

	messages, err := svc.GetConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestReplyThreading(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com", models.RoleStudent)
	bob := seedUser(t, db, "bob@example.com", models.RoleStudent)

	svc := NewMessageService(db, nil, nil)
	original, err := svc.SendMessage(alice.ID, &SendMessageRequest{ReceiverID: bob.ID, Text: "original"})
	require.NoError(t, err)

	reply, err := svc.SendMessage(bob.ID, &SendMessageRequest{
		ReceiverID: alice.ID,
		Text:       "replying",
		ReplyToID:  &original.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyTo)
	assert.Equal(t, "original", reply.ReplyTo.Text)
}
