package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.Conn
}

func createUser(t *testing.T, db *sql.DB, id, name string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID: id, Name: name, Email: id + "@test.com", PasswordHash: "hash",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewSQLiteUserRepo(db).Create(context.Background(), u))
	return u
}

func TestUserRepoCreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteUserRepo(db)

	age := 28
	u := createUser(t, db, "ana", "Ana")
	require.NoError(t, repo.UpdateProfile(ctx, u.ID, models.Profile{Age: &age, Goal: "maintain"}))
	require.NoError(t, repo.SetPremium(ctx, u.ID, true))

	got, err := repo.GetByEmail(ctx, "ana@test.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.True(t, got.IsPremium)
	require.NotNil(t, got.Profile.Age)
	assert.Equal(t, 28, *got.Profile.Age)

	_, err = repo.GetByEmail(ctx, "nobody@test.com")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	dup := *u
	dup.ID = "other"
	assert.ErrorIs(t, repo.Create(ctx, &dup), pkg.ErrAlreadyExists)

	assert.ErrorIs(t, repo.SetPremium(ctx, "missing", true), pkg.ErrNotFound)
}

func TestUserRepoSearch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteUserRepo(db)

	createUser(t, db, "me", "Maria")
	createUser(t, db, "u1", "Mark")
	createUser(t, db, "u2", "Bob")
	createUser(t, db, "u3", "100%_real")

	results, err := repo.Search(ctx, "MAR", "me", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Mark", results[0].Name)

	// % ve _ joker değil, literal karakter olarak aranır
	results, err = repo.Search(ctx, "%_", "me", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u3", results[0].ID)

	// email üzerinden eşleşme
	results, err = repo.Search(ctx, "u2@test", "me", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bob", results[0].Name)
}

func TestUserRepoSearchFoldsUnicode(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteUserRepo(db)

	createUser(t, db, "me", "Ana")
	createUser(t, db, "oz", "Özge Çelik")
	createUser(t, db, "sc", "Şule")

	results, err := repo.Search(ctx, "özge", "me", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "oz", results[0].ID)

	results, err = repo.Search(ctx, "ÇEL", "me", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Özge Çelik", results[0].Name)

	results, err = repo.Search(ctx, "şu", "me", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "sc", results[0].ID)
}

func newRequest(id, from, to string) *models.FriendRequest {
	now := time.Now().UTC()
	return &models.FriendRequest{
		ID: id, SenderID: from, RecipientID: to,
		Status: models.FriendRequestPending, CreatedAt: now, UpdatedAt: now,
	}
}

func TestFriendshipRepoPendingUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteFriendshipRepo(db)
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")

	require.NoError(t, repo.CreateRequest(ctx, newRequest("r1", "a", "b")))
	assert.ErrorIs(t, repo.CreateRequest(ctx, newRequest("r2", "b", "a")), pkg.ErrDuplicatePending)

	pending, err := repo.HasPendingBetween(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, pending)

	// Yanlış alıcı hiçbir şeyi değiştirmez
	changed, err := repo.ResolveRequest(ctx, "r1", "a", models.FriendRequestAccepted)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.ResolveRequest(ctx, "r1", "b", models.FriendRequestDeclined)
	require.NoError(t, err)
	assert.True(t, changed)

	// Durum geçişleri tek yönlü
	changed, err = repo.ResolveRequest(ctx, "r1", "b", models.FriendRequestAccepted)
	require.NoError(t, err)
	assert.False(t, changed)

	// Declined sonrası yeni istek açılabilir
	assert.NoError(t, repo.CreateRequest(ctx, newRequest("r3", "b", "a")))
}

func TestFriendshipRepoSymmetricPair(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteFriendshipRepo(db)
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")
	createUser(t, db, "c", "C")

	require.NoError(t, repo.AddFriendship(ctx, "b", "a"))
	require.NoError(t, repo.AddFriendship(ctx, "a", "b")) // no-op
	require.NoError(t, repo.AddFriendship(ctx, "a", "c"))

	aFriends, err := repo.FriendIDs(ctx, "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, aFriends)

	bFriends, err := repo.ListFriends(ctx, "b")
	require.NoError(t, err)
	require.Len(t, bFriends, 1)
	assert.Equal(t, "a", bFriends[0].ID)

	ok, err := repo.AreFriends(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := repo.RemoveFriendship(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveFriendship(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err = repo.AreFriends(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func sendDM(t *testing.T, db *sql.DB, id, from, to string, at time.Time) {
	t.Helper()
	to2 := to
	require.NoError(t, NewSQLiteMessageRepo(db).Create(context.Background(), &models.Message{
		ID: id, SenderID: from, RecipientID: &to2, Text: "msg " + id, CreatedAt: at,
	}))
}

func TestMessageRepoDirectThreadAndReads(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	msgs := NewSQLiteMessageRepo(db)
	reads := NewSQLiteReadStateRepo(db)
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")
	createUser(t, db, "c", "C")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		from, to := "a", "b"
		if i%2 == 1 {
			from, to = "b", "a"
		}
		sendDM(t, db, fmt.Sprintf("m%d", i), from, to, base.Add(time.Duration(i)*time.Minute))
	}
	sendDM(t, db, "other", "c", "a", base)

	thread, err := msgs.ListDirect(ctx, "a", "b", 3)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []string{"m2", "m3", "m4"}, []string{thread[0].ID, thread[1].ID, thread[2].ID})
	assert.Equal(t, "A", thread[0].SenderName)

	// b → a yönündeki m1, m3 okunur
	marked, err := reads.MarkDirectRead(ctx, "a", "b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m1", "m3"}, marked)

	marked, err = reads.MarkDirectRead(ctx, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, marked)

	readers, err := reads.ReadersOf(ctx, []string{"m1", "m2", "m3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, readers["m1"])
	assert.Empty(t, readers["m2"])
}

func TestMessageRepoConversations(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")
	createUser(t, db, "c", "C")

	base := time.Now().UTC().Add(-time.Hour)
	sendDM(t, db, "m1", "b", "a", base)
	sendDM(t, db, "m2", "b", "a", base.Add(time.Minute))
	sendDM(t, db, "m3", "a", "c", base.Add(2*time.Minute))

	convs, err := NewSQLiteMessageRepo(db).Conversations(ctx, "a")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "c", convs[0].User.ID)
	assert.Equal(t, "m3", convs[0].LastMessage.ID)
	assert.Zero(t, convs[0].UnreadCount)

	assert.Equal(t, "b", convs[1].User.ID)
	assert.Equal(t, "m2", convs[1].LastMessage.ID)
	assert.Equal(t, 2, convs[1].UnreadCount)

	_, err = NewSQLiteReadStateRepo(db).MarkDirectRead(ctx, "a", "b")
	require.NoError(t, err)

	convs, err = NewSQLiteMessageRepo(db).Conversations(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, convs[1].UnreadCount)
}

func TestGroupRepoMembership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteGroupRepo(db)
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")
	createUser(t, db, "c", "C")

	created := time.Now().UTC().Add(-time.Hour)
	g := &models.Group{ID: "g1", Name: "Crew", Emoji: "💪", CreatorID: "a", CreatedAt: created, UpdatedAt: created}
	require.NoError(t, repo.Create(ctx, g, []string{"a", "b"}, []string{"a"}))

	got, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.MemberIDs())
	assert.Equal(t, []string{"a"}, got.AdminIDs)

	added, err := repo.AddMember(ctx, "g1", "c")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddMember(ctx, "g1", "c")
	require.NoError(t, err)
	assert.False(t, added)

	got, err = repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got.MemberIDs())
	assert.True(t, got.UpdatedAt.After(created))

	removed, err := repo.RemoveMember(ctx, "g1", "b")
	require.NoError(t, err)
	assert.True(t, removed)

	groups, err := repo.ListByMember(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func createPost(t *testing.T, db *sql.DB, id, author string, at time.Time) {
	t.Helper()
	require.NoError(t, NewSQLitePostRepo(db).Create(context.Background(), &models.Post{
		ID: id, AuthorID: author, Type: models.PostTypeWeightUpdate,
		Data:       &models.WeightUpdateData{Weight: 70},
		Visibility: models.VisibilityFriends, CreatedAt: at, UpdatedAt: at,
	}))
}

func TestPostRepoListAndDecode(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLitePostRepo(db)
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")

	base := time.Now().UTC().Add(-time.Hour)
	createPost(t, db, "p1", "a", base)
	createPost(t, db, "p2", "b", base.Add(time.Minute))
	createPost(t, db, "p3", "a", base.Add(2*time.Minute))

	posts, err := repo.ListByAuthors(ctx, []string{"a"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p3", posts[0].ID)
	assert.Equal(t, "A", posts[0].Author.Name)
	assert.Equal(t, 70.0, posts[0].Data.(*models.WeightUpdateData).Weight)

	total, err := repo.CountByAuthors(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	page, err := repo.ListByAuthors(ctx, []string{"a", "b"}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p1", page[0].ID)
}

func TestLikeRepoToggle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	likes := NewSQLiteLikeRepo(db)
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")
	createPost(t, db, "p1", "a", time.Now().UTC())

	res, err := likes.Toggle(ctx, "p1", "a")
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Likes: 1, Liked: true}, res)

	res, err = likes.Toggle(ctx, "p1", "b")
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Likes: 2, Liked: true}, res)

	res, err = likes.Toggle(ctx, "p1", "a")
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Likes: 1, Liked: false}, res)

	likers, err := likes.LikersOf(ctx, []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, likers["p1"])
}

func TestLikeOnDeletedPostIsNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createUser(t, db, "a", "A")
	createPost(t, db, "p1", "a", time.Now().UTC())
	require.NoError(t, NewSQLitePostRepo(db).Delete(ctx, "p1"))

	_, err := NewSQLiteLikeRepo(db).Toggle(ctx, "p1", "a")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	now := time.Now().UTC()
	err = NewSQLiteCommentRepo(db).Create(ctx, &models.Comment{ID: "c1", PostID: "p1", Author: models.PublicUser{ID: "a"}, Text: "x", CreatedAt: now})
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	err = NewSQLiteCommentRepo(db).CreateReply(ctx, &models.Reply{ID: "r1", CommentID: "missing", Author: models.PublicUser{ID: "a"}, Text: "x", CreatedAt: now})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestCommentRepoCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	comments := NewSQLiteCommentRepo(db)
	createUser(t, db, "a", "A")
	createUser(t, db, "b", "B")
	createPost(t, db, "p1", "a", time.Now().UTC())

	now := time.Now().UTC()
	require.NoError(t, comments.Create(ctx, &models.Comment{ID: "c1", PostID: "p1", Author: models.PublicUser{ID: "b"}, Text: "nice!", CreatedAt: now}))
	require.NoError(t, comments.Create(ctx, &models.Comment{ID: "c2", PostID: "p1", Author: models.PublicUser{ID: "a"}, Text: "thanks", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, comments.CreateReply(ctx, &models.Reply{ID: "r1", CommentID: "c1", Author: models.PublicUser{ID: "a"}, Text: ":)", CreatedAt: now}))

	byPost, err := comments.ListByPosts(ctx, []string{"p1"})
	require.NoError(t, err)
	require.Len(t, byPost["p1"], 2)
	assert.Equal(t, "B", byPost["p1"][0].Author.Name)
	require.Len(t, byPost["p1"][0].Replies, 1)
	assert.Equal(t, "A", byPost["p1"][0].Replies[0].Author.Name)

	_, err = comments.GetByID(ctx, "other-post", "c1")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	require.NoError(t, comments.Delete(ctx, "c1"))

	var replies int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM comment_replies`).Scan(&replies))
	assert.Zero(t, replies)

	// Gönderi silinince kalan yorum da gider
	require.NoError(t, NewSQLitePostRepo(db).Delete(ctx, "p1"))
	byPost, err = comments.ListByPosts(ctx, []string{"p1"})
	require.NoError(t, err)
	assert.Empty(t, byPost["p1"])
}
