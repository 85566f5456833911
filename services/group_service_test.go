package services

import (
	"context"
	"testing"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupFiltersToFriends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")
	b := env.createUser(t, "b", "Bora")
	c := env.createUser(t, "c", "Cem")
	env.befriend(t, a, b)

	group, err := env.groups.Create(ctx, a.ID, &models.CreateGroupRequest{
		Name:      "  Morning Runners ",
		MemberIDs: []string{b.ID, c.ID, b.ID, a.ID, "ghost"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Morning Runners", group.Name)
	assert.Equal(t, models.DefaultGroupEmoji, group.Emoji)
	assert.Equal(t, []string{a.ID, b.ID}, group.MemberIDs())
	assert.Equal(t, []string{a.ID}, group.AdminIDs)
	assert.Len(t, env.hub.received(b.ID, ws.OpGroupCreate), 1)
	assert.Empty(t, env.hub.received(c.ID, ws.OpGroupCreate))

	_, err = env.groups.Create(ctx, a.ID, &models.CreateGroupRequest{Name: "   "})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestGroupMessagingAndMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")
	b := env.createUser(t, "b", "Bora")
	stranger := env.createUser(t, "s", "Sena")
	env.befriend(t, a, b)

	group, err := env.groups.Create(ctx, a.ID, &models.CreateGroupRequest{Name: "Lifters", MemberIDs: []string{b.ID}})
	require.NoError(t, err)

	msg, err := env.groups.Send(ctx, b.ID, group.ID, &models.SendMessageRequest{Text: "leg day"})
	require.NoError(t, err)
	require.NotNil(t, msg.GroupID)
	assert.Nil(t, msg.RecipientID)
	assert.Len(t, env.hub.received(a.ID, ws.OpGroupMessageCreate), 1)

	_, err = env.groups.Send(ctx, stranger.ID, group.ID, &models.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	_, err = env.groups.Send(ctx, a.ID, "missing", &models.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	// grup kontrolü metin kontrolünden önce gelir
	_, err = env.groups.Send(ctx, a.ID, "missing", &models.SendMessageRequest{Text: ""})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = env.groups.Send(ctx, stranger.ID, group.ID, &models.SendMessageRequest{Text: ""})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = env.groups.FetchThread(ctx, stranger.ID, group.ID, 0)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	// arkadaşlık şartı olmadan katılım
	joined, err := env.groups.Join(ctx, stranger.ID, group.ID)
	require.NoError(t, err)
	assert.True(t, joined.HasMember(stranger.ID))
	_, err = env.groups.Join(ctx, stranger.ID, group.ID)
	require.NoError(t, err)
	assert.Len(t, env.hub.received(a.ID, ws.OpGroupMemberJoin), 1)

	thread, err := env.groups.FetchThread(ctx, stranger.ID, group.ID, 0)
	require.NoError(t, err)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, "leg day", thread.Messages[0].Text)
	assert.Equal(t, "Bora", thread.Messages[0].SenderName)

	mine, err := env.groups.ListMine(ctx, stranger.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, env.groups.Leave(ctx, stranger.ID, group.ID))
	require.NoError(t, env.groups.Leave(ctx, stranger.ID, group.ID))
	assert.Len(t, env.hub.received(stranger.ID, ws.OpGroupMemberLeave), 1)

	mine, err = env.groups.ListMine(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = env.groups.Join(ctx, stranger.ID, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, env.groups.Leave(ctx, stranger.ID, "missing"), pkg.ErrNotFound)
}

func TestJoinAndLeaveRollBackWhenTouchFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")
	z := env.createUser(t, "z", "Zeynep")

	group, err := env.groups.Create(ctx, a.ID, &models.CreateGroupRequest{Name: "Walkers"})
	require.NoError(t, err)

	// updated_at güncellemesi başarısız olursa üyelik değişikliği de geri alınmalı
	_, err = env.db.Exec(`CREATE TRIGGER fail_group_touch BEFORE UPDATE ON groups
		BEGIN SELECT RAISE(ABORT, 'touch failed'); END`)
	require.NoError(t, err)

	_, err = env.groups.Join(ctx, z.ID, group.ID)
	require.Error(t, err)
	assert.Empty(t, env.hub.received(a.ID, ws.OpGroupMemberJoin))

	err = env.groups.Leave(ctx, a.ID, group.ID)
	require.Error(t, err)

	var members int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM group_members WHERE group_id = ?`, group.ID).Scan(&members))
	assert.Equal(t, 1, members)

	_, err = env.db.Exec(`DROP TRIGGER fail_group_touch`)
	require.NoError(t, err)

	joined, err := env.groups.Join(ctx, z.ID, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, z.ID}, joined.MemberIDs())
}
