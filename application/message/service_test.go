package message_test

import (
	"context"
	"testing"

	appmessage "campodigital/application/message"
	"campodigital/domain/message"
	"campodigital/domain/shared"
	"campodigital/domain/user"
	"campodigital/infrastructure/persistence/gormdb"
	"campodigital/infrastructure/persistence/gormdb/gormdbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessaging(t *testing.T) {
	s := gormdbtest.New(t)
	svc := appmessage.NewApplicationService(gormdb.NewMessageRepository(s))
	ctx := context.Background()
	farmer := gormdbtest.SeedUser(t, s, "juan", user.RoleProducer)
	maria := gormdbtest.SeedUser(t, s, "maria", user.RoleConsumer)

	n, err := svc.UnreadCount(ctx, farmer)
	require.NoError(t, err)
	assert.Zero(t, n)

	first, err := svc.Send(ctx, maria, farmer, "Buenos dias, tiene platano?")
	require.NoError(t, err)
	_, err = svc.Send(ctx, farmer, maria, "Si, 100 kg a 3000")
	require.NoError(t, err)
	_, err = svc.Send(ctx, maria, farmer, "Separeme 5 kg")
	require.NoError(t, err)

	conv, err := svc.Conversation(ctx, maria, farmer)
	require.NoError(t, err)
	require.Len(t, conv, 3)
	assert.Equal(t, first, conv[0].ID)
	assert.Equal(t, "Si, 100 kg a 3000", conv[1].Body)
	assert.False(t, conv[0].IsRead)

	n, err = svc.UnreadCount(ctx, farmer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = svc.UnreadCount(ctx, maria)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, svc.MarkAsRead(ctx, first))
	n, err = svc.UnreadCount(ctx, farmer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	changed, err := svc.MarkConversationRead(ctx, farmer, maria)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)
	n, err = svc.UnreadCount(ctx, farmer)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, svc.MarkAsRead(ctx, 999), shared.ErrNotFound)
}

func TestSendValidates(t *testing.T) {
	s := gormdbtest.New(t)
	svc := appmessage.NewApplicationService(gormdb.NewMessageRepository(s))
	ctx := context.Background()
	farmer := gormdbtest.SeedUser(t, s, "juan", user.RoleProducer)

	_, err := svc.Send(ctx, farmer, farmer, "   ")
	assert.ErrorIs(t, err, message.ErrEmptyBody)
	_, err = svc.Send(ctx, 0, farmer, "hola")
	assert.ErrorIs(t, err, message.ErrInvalidParty)
	_, err = svc.Send(ctx, 999, farmer, "hola")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
