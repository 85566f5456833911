package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
	"github.com/akinalp/healthy/pkg"
	"github.com/akinalp/healthy/pkg/ratelimit"
	"github.com/akinalp/healthy/repository"
	"github.com/akinalp/healthy/services"
	"github.com/akinalp/healthy/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPublisher struct{}

func (nopPublisher) BroadcastToUser(string, ws.Event)    {}
func (nopPublisher) BroadcastToUsers([]string, ws.Event) {}
func (nopPublisher) IsOnline(string) bool                { return false }

type testServer struct {
	mux   *http.ServeMux
	users repository.UserRepository
}

// newTestServer, gerçek service'ler ve geçici bir SQLite ile route'ları kurar.
// Auth middleware yerine X-User-ID header'ındaki kullanıcı context'e konur.
func newTestServer(t *testing.T, messageLimiter *ratelimit.WindowLimiter) *testServer {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	conn := db.Conn
	hub := nopPublisher{}

	userRepo := repository.NewSQLiteUserRepo(conn)
	messageRepo := repository.NewSQLiteMessageRepo(conn)
	friendships := services.NewFriendshipService(conn, repository.NewSQLiteFriendshipRepo(conn), userRepo, hub, nil)
	dms := services.NewDMService(messageRepo, repository.NewSQLiteReadStateRepo(conn), userRepo, friendships, hub)
	groups := services.NewGroupService(conn, repository.NewSQLiteGroupRepo(conn), messageRepo, userRepo, friendships, hub)
	meals := services.NewCustomMealService(repository.NewSQLiteCustomMealRepo(conn))
	feed := services.NewFeedService(conn, repository.NewSQLitePostRepo(conn), repository.NewSQLiteLikeRepo(conn),
		repository.NewSQLiteCommentRepo(conn), userRepo, friendships, meals, hub)

	fh := NewFriendshipHandler(friendships)
	dh := NewDMHandler(dms, messageLimiter)
	gh := NewGroupHandler(groups, messageLimiter)
	feedH := NewFeedHandler(feed, nil)
	ph := NewProfileHandler(services.NewUserService(userRepo))
	progH := NewProgressHandler(services.NewProgressService(repository.NewSQLiteProgressRepo(conn)))
	mealH := NewCustomMealHandler(meals)

	withUser := func(fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, err := userRepo.GetByID(r.Context(), r.Header.Get("X-User-ID"))
			if err != nil {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
				return
			}
			fn(w, r.WithContext(context.WithValue(r.Context(), UserContextKey, user)))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", NewHealthHandler(conn).Check)
	mux.HandleFunc("GET /api/profile", withUser(ph.Get))
	mux.HandleFunc("PUT /api/profile", withUser(ph.Update))
	mux.HandleFunc("GET /api/friends", withUser(fh.ListFriends))
	mux.HandleFunc("GET /api/friends/search", withUser(fh.Search))
	mux.HandleFunc("POST /api/friends/request", withUser(fh.SendRequest))
	mux.HandleFunc("PUT /api/friends/request/{id}/accept", withUser(fh.AcceptRequest))
	mux.HandleFunc("PUT /api/friends/request/{id}/decline", withUser(fh.DeclineRequest))
	mux.HandleFunc("GET /api/messages/dm/{userId}", withUser(dh.GetThread))
	mux.HandleFunc("POST /api/messages/dm/{userId}", withUser(dh.Send))
	mux.HandleFunc("POST /api/messages/groups", withUser(gh.Create))
	mux.HandleFunc("POST /api/messages/groups/{id}/join", withUser(gh.Join))
	mux.HandleFunc("GET /api/social/feed", withUser(feedH.Feed))
	mux.HandleFunc("POST /api/social/post", withUser(feedH.CreatePost))
	mux.HandleFunc("PUT /api/social/post/{id}/like", withUser(feedH.ToggleLike))
	mux.HandleFunc("POST /api/social/post/{id}/comment", withUser(feedH.AddComment))
	mux.HandleFunc("DELETE /api/social/post/{postId}/comment/{commentId}", withUser(feedH.DeleteComment))
	mux.HandleFunc("GET /api/progress", withUser(progH.List))
	mux.HandleFunc("POST /api/progress", withUser(progH.Log))
	mux.HandleFunc("DELETE /api/progress/{id}", withUser(progH.Delete))
	mux.HandleFunc("GET /api/custom-meals", withUser(mealH.ListMine))
	mux.HandleFunc("GET /api/custom-meals/public", withUser(mealH.SearchPublic))
	mux.HandleFunc("POST /api/custom-meals", withUser(mealH.Create))
	mux.HandleFunc("PUT /api/custom-meals/{id}", withUser(mealH.Update))
	mux.HandleFunc("DELETE /api/custom-meals/{id}", withUser(mealH.Delete))

	return &testServer{mux: mux, users: userRepo}
}

func (s *testServer) createUser(t *testing.T, id, name string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, s.users.Create(context.Background(), &models.User{
		ID: id, Name: name, Email: id + "@test.com", PasswordHash: "x",
		CreatedAt: now, UpdatedAt: now,
	}))
}

// do, isteği çalıştırır ve envelope'u çözer.
func (s *testServer) do(t *testing.T, method, path, userID string, body any) (*httptest.ResponseRecorder, pkg.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var resp pkg.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// dataMap, envelope'un data alanını map olarak döner.
func dataMap(t *testing.T, resp pkg.APIResponse) map[string]any {
	t.Helper()
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return m
}

func TestFriendRequestEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")
	s.createUser(t, "b", "Bora")

	rec, resp := s.do(t, "POST", "/api/friends/request", "a", map[string]string{"email": "B@test.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	requestID := dataMap(t, resp)["id"].(string)

	rec, resp = s.do(t, "POST", "/api/friends/request", "b", map[string]string{"email": "a@test.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, pkg.CodeDuplicatePending, resp.Code)

	rec, resp = s.do(t, "POST", "/api/friends/request", "a", map[string]string{"email": "a@test.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, pkg.CodeSelfRequest, resp.Code)

	rec, resp = s.do(t, "POST", "/api/friends/request", "a", map[string]string{"email": "ghost@test.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, pkg.CodeNotFound, resp.Code)

	rec, _ = s.do(t, "PUT", "/api/friends/request/"+requestID+"/accept", "a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, "PUT", "/api/friends/request/"+requestID+"/accept", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = s.do(t, "POST", "/api/friends/request", "b", map[string]string{"email": "a@test.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, pkg.CodeAlreadyFriends, resp.Code)

	_, resp = s.do(t, "GET", "/api/friends", "a", nil)
	friends := resp.Data.([]any)
	require.Len(t, friends, 1)
	assert.Equal(t, "b", friends[0].(map[string]any)["id"])

	rec, _ = s.do(t, "PUT", "/api/friends/request/unknown/decline", "b", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInvalidBodyIsValidationError(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")

	rec, resp := s.do(t, "POST", "/api/friends/request", "a", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, pkg.CodeValidation, resp.Code)
}

func TestDMEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")
	s.createUser(t, "b", "Bora")

	rec, resp := s.do(t, "POST", "/api/messages/dm/b", "a", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, pkg.CodeNotFriends, resp.Code)

	_, resp = s.do(t, "POST", "/api/friends/request", "a", map[string]string{"email": "b@test.com"})
	requestID := dataMap(t, resp)["id"].(string)
	s.do(t, "PUT", "/api/friends/request/"+requestID+"/accept", "b", nil)

	rec, resp = s.do(t, "POST", "/api/messages/dm/b", "a", map[string]string{"text": "  hi  "})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hi", dataMap(t, resp)["text"])

	rec, resp = s.do(t, "GET", "/api/messages/dm/a", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	thread := resp.Data.([]any)
	require.Len(t, thread, 1)
	assert.Equal(t, []any{"b"}, thread[0].(map[string]any)["read_by"])
}

func TestMessageRateLimit(t *testing.T) {
	limiter := ratelimit.NewWindowLimiter(2, time.Minute, time.Minute)
	t.Cleanup(limiter.Close)

	s := newTestServer(t, limiter)
	s.createUser(t, "a", "Ana")

	// limit validation'dan önce sayılır
	for i := 0; i < 2; i++ {
		rec, _ := s.do(t, "POST", "/api/messages/dm/b", "a", map[string]string{"text": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec, resp := s.do(t, "POST", "/api/messages/dm/b", "a", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, pkg.CodeRateLimited, resp.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestGroupJoinWithoutFriendship(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")
	s.createUser(t, "z", "Zeynep")

	rec, resp := s.do(t, "POST", "/api/messages/groups", "a", map[string]any{"name": "Walkers", "member_ids": []string{"z"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	group := dataMap(t, resp)
	assert.Len(t, group["members"], 1)
	assert.Equal(t, models.DefaultGroupEmoji, group["emoji"])

	rec, resp = s.do(t, "POST", "/api/messages/groups/"+group["id"].(string)+"/join", "z", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dataMap(t, resp)["members"], 2)

	rec, _ = s.do(t, "POST", "/api/messages/groups/missing/join", "z", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")

	rec, resp := s.do(t, "POST", "/api/social/post", "a", map[string]any{"type": "dance"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, pkg.CodeValidation, resp.Code)

	rec, resp = s.do(t, "POST", "/api/social/post", "a", map[string]any{
		"type":    "workout_log",
		"content": "5k done",
		"data":    map[string]any{"workout": "run", "duration": 30},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	postID := dataMap(t, resp)["id"].(string)

	rec, resp = s.do(t, "PUT", "/api/social/post/"+postID+"/like", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"likes": float64(1), "liked": true}, dataMap(t, resp))

	rec, resp = s.do(t, "GET", "/api/social/feed?page=1&limit=10", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := dataMap(t, resp)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, false, page["has_more"])
	post := page["posts"].([]any)[0].(map[string]any)
	assert.Equal(t, true, post["liked_by_me"])
	assert.Equal(t, "Ana", post["author"].(map[string]any)["name"])

	rec, _ = s.do(t, "PUT", "/api/social/post/missing/like", "a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCommentEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")
	s.createUser(t, "b", "Bora")
	s.createUser(t, "c", "Cem")

	_, resp := s.do(t, "POST", "/api/social/post", "a", map[string]any{"type": "calorie_log", "data": map[string]any{"calories": 1800}})
	postID := dataMap(t, resp)["id"].(string)

	rec, resp := s.do(t, "POST", "/api/social/post/"+postID+"/comment", "b", map[string]string{"text": "nice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	commentID := resp.Data.([]any)[0].(map[string]any)["id"].(string)
	path := "/api/social/post/" + postID + "/comment/" + commentID

	rec, resp = s.do(t, "DELETE", path, "c", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, pkg.CodeForbidden, resp.Code)

	rec, resp = s.do(t, "DELETE", path, "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Data)

	rec, _ = s.do(t, "DELETE", path, "b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgressEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")
	s.createUser(t, "b", "Bora")

	rec, resp := s.do(t, "POST", "/api/progress", "a", map[string]any{"weight": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, pkg.CodeValidation, resp.Code)

	for _, w := range []float64{82, 81.5, 81} {
		rec, _ = s.do(t, "POST", "/api/progress", "a", map[string]any{
			"weight":  w,
			"workout": map[string]any{"type": "walk", "duration": 30},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, resp = s.do(t, "GET", "/api/progress?limit=2", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := resp.Data.([]any)
	require.Len(t, entries, 2)
	latest := entries[0].(map[string]any)
	assert.Equal(t, 81.0, latest["weight"])
	assert.Equal(t, "walk", latest["workout"].(map[string]any)["type"])
	assert.NotContains(t, latest, "calories")

	path := "/api/progress/" + latest["id"].(string)
	rec, _ = s.do(t, "DELETE", path, "b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = s.do(t, "DELETE", path, "a", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = s.do(t, "GET", "/api/progress", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 2)
}

func TestCustomMealEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")
	s.createUser(t, "b", "Bora")

	rec, _ := s.do(t, "POST", "/api/custom-meals", "a", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := s.do(t, "POST", "/api/custom-meals", "a", map[string]any{
		"name": "Çilek Smoothie", "calories": 180, "category": "beverage", "is_public": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	mealID := dataMap(t, resp)["id"].(string)
	assert.Equal(t, models.DefaultServing, dataMap(t, resp)["serving"])

	_, _ = s.do(t, "POST", "/api/custom-meals", "a", map[string]any{"name": "Secret Stew"})
	_, _ = s.do(t, "POST", "/api/custom-meals", "b", map[string]any{"name": "Çilekli Yulaf", "is_public": true})

	rec, resp = s.do(t, "GET", "/api/custom-meals", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 2)

	// "/public" {id} ile çakışmaz; arama büyük/küçük harf duyarsız
	rec, resp = s.do(t, "GET", "/api/custom-meals/public?q=%C3%87%C4%B0LEK", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 2)

	rec, resp = s.do(t, "GET", "/api/custom-meals/public?limit=1", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 1)

	rec, _ = s.do(t, "PUT", "/api/custom-meals/"+mealID, "b", map[string]any{"name": "Stolen"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = s.do(t, "PUT", "/api/custom-meals/"+mealID, "a", map[string]any{"name": "Çilek Smoothie", "meal_time": "breakfast"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "breakfast", dataMap(t, resp)["meal_time"])
	assert.Equal(t, false, dataMap(t, resp)["is_public"])

	rec, _ = s.do(t, "DELETE", "/api/custom-meals/"+mealID, "b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = s.do(t, "DELETE", "/api/custom-meals/"+mealID, "a", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser(t, "a", "Ana")

	rec, resp := s.do(t, "PUT", "/api/profile", "a", map[string]any{"profile": map[string]any{"goal": "gain_muscle", "age": 40}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gain_muscle", dataMap(t, resp)["profile"].(map[string]any)["goal"])

	rec, _ = s.do(t, "PUT", "/api/profile", "a", map[string]any{"profile": map[string]any{"goal": "fly"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = s.do(t, "GET", "/api/profile", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, dataMap(t, resp), "reminders")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec, resp := s.do(t, "GET", "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", dataMap(t, resp)["status"])
}
