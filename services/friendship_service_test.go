package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestAcceptFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")
	b := env.createUser(t, "b", "Bora")

	req, err := env.friendships.SendRequest(ctx, a.ID, &models.SendFriendRequestRequest{Email: " B@Test.com "})
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, req.Status)
	assert.Equal(t, b.ID, req.User.ID)
	require.Len(t, env.hub.received(b.ID, ws.OpFriendRequestCreate), 1)

	// ters yönde ikinci pending istek açılamaz
	_, err = env.friendships.SendRequest(ctx, b.ID, &models.SendFriendRequestRequest{Email: a.Email})
	assert.ErrorIs(t, err, pkg.ErrDuplicatePending)

	incoming, err := env.friendships.ListIncoming(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, a.ID, incoming[0].User.ID)

	sent, err := env.friendships.ListSent(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)

	// yalnızca alıcı kabul edebilir
	_, err = env.friendships.AcceptRequest(ctx, a.ID, req.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	friend, err := env.friendships.AcceptRequest(ctx, b.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, friend.ID)
	require.Len(t, env.hub.received(a.ID, ws.OpFriendRequestAccept), 1)

	for _, pair := range [][2]string{{a.ID, b.ID}, {b.ID, a.ID}} {
		ok, err := env.friendships.AreFriends(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err = env.friendships.AcceptRequest(ctx, b.ID, req.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = env.friendships.SendRequest(ctx, b.ID, &models.SendFriendRequestRequest{Email: a.Email})
	assert.ErrorIs(t, err, pkg.ErrAlreadyFriends)

	incoming, err = env.friendships.ListIncoming(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestFriendRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")

	_, err := env.friendships.SendRequest(ctx, a.ID, &models.SendFriendRequestRequest{Email: a.Email})
	assert.ErrorIs(t, err, pkg.ErrSelfRequest)

	_, err = env.friendships.SendRequest(ctx, a.ID, &models.SendFriendRequestRequest{Email: "ghost@test.com"})
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = env.friendships.SendRequest(ctx, a.ID, &models.SendFriendRequestRequest{Email: "  "})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestDeclineIsSilentAndAllowsNewRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")
	b := env.createUser(t, "b", "Bora")

	req, err := env.friendships.SendRequest(ctx, a.ID, &models.SendFriendRequestRequest{Email: b.Email})
	require.NoError(t, err)

	// başkasının isteği: sessizce geçer, istek pending kalır
	require.NoError(t, env.friendships.DeclineRequest(ctx, a.ID, req.ID))
	require.NoError(t, env.friendships.DeclineRequest(ctx, b.ID, "missing"))
	assert.Empty(t, env.hub.received(a.ID, ws.OpFriendRequestDecline))

	require.NoError(t, env.friendships.DeclineRequest(ctx, b.ID, req.ID))
	assert.Len(t, env.hub.received(a.ID, ws.OpFriendRequestDecline), 1)

	require.NoError(t, env.friendships.DeclineRequest(ctx, b.ID, req.ID))
	assert.Len(t, env.hub.received(a.ID, ws.OpFriendRequestDecline), 1)

	ok, err := env.friendships.AreFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.friendships.SendRequest(ctx, b.ID, &models.SendFriendRequestRequest{Email: a.Email})
	assert.NoError(t, err)
}

func TestRemoveFriendIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")
	b := env.createUser(t, "b", "Bora")
	env.befriend(t, a, b)

	// cache'i doldur, silme sonrası bayat kalmamalı
	ok, err := env.friendships.AreFriends(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, env.friendships.RemoveFriend(ctx, b.ID, a.ID))
	require.NoError(t, env.friendships.RemoveFriend(ctx, b.ID, a.ID))
	assert.Len(t, env.hub.received(a.ID, ws.OpFriendRemove), 1)

	for _, pair := range [][2]string{{a.ID, b.ID}, {b.ID, a.ID}} {
		ok, err := env.friendships.AreFriends(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.False(t, ok)
	}

	friends, err := env.friendships.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// kabul edilmiş istek geçmişte kalır, yeni istek açılabilir
	_, err = env.friendships.SendRequest(ctx, a.ID, &models.SendFriendRequestRequest{Email: b.Email})
	assert.NoError(t, err)
}

func TestConcurrentCrossRequestsCreateOnePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createUser(t, "a", "Ana")
	b := env.createUser(t, "b", "Bora")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		sender, recipient := a, b
		if i%2 == 1 {
			sender, recipient = b, a
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.friendships.SendRequest(ctx, sender.ID, &models.SendFriendRequestRequest{Email: recipient.Email})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, pkg.ErrDuplicatePending), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	incomingA, err := env.friendships.ListIncoming(ctx, a.ID)
	require.NoError(t, err)
	incomingB, err := env.friendships.ListIncoming(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, len(incomingA)+len(incomingB))
}

func TestSearchAnnotatesRelationship(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.createUser(t, "me", "Maria")
	friend := env.createUser(t, "friend", "Marco")
	pending := env.createUser(t, "pending", "Marta")
	env.createUser(t, "other", "Mario")
	env.befriend(t, me, friend)

	_, err := env.friendships.SendRequest(ctx, me.ID, &models.SendFriendRequestRequest{Email: pending.Email})
	require.NoError(t, err)

	results, err := env.friendships.Search(ctx, me.ID, "m")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = env.friendships.Search(ctx, me.ID, "MAR")
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := map[string]models.UserSearchResult{}
	for _, r := range results {
		byID[r.ID] = r
	}
	assert.NotContains(t, byID, me.ID)
	assert.True(t, byID["friend"].IsFriend)
	assert.False(t, byID["friend"].RequestSent)
	assert.True(t, byID["pending"].RequestSent)
	assert.False(t, byID["other"].IsFriend)
	assert.False(t, byID["other"].RequestSent)
}

func TestSearchMatchesNonASCIINames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.createUser(t, "me", "Ana")
	env.createUser(t, "oz", "Özge Çelik")

	results, err := env.friendships.Search(ctx, me.ID, "özge")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Özge Çelik", results[0].Name)
}

func TestFriendCacheLoadIgnoresCallerCancellation(t *testing.T) {
	env := newTestEnv(t)
	a := env.createUser(t, "a", "Ana")
	b := env.createUser(t, "b", "Bora")
	env.befriend(t, a, b)

	c := newFriendCache(repository.NewSQLiteFriendshipRepo(env.db), time.Minute)
	t.Cleanup(c.cache.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ids, err := c.ids(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids)
}
