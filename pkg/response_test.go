package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", fmt.Errorf("%w: text required", ErrBadRequest), http.StatusBadRequest, CodeValidation},
		{"self request", ErrSelfRequest, http.StatusBadRequest, CodeSelfRequest},
		{"not found", fmt.Errorf("%w: post abc", ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"forbidden", ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"not friends", fmt.Errorf("dm send: %w", ErrNotFriends), http.StatusForbidden, CodeNotFriends},
		{"conflict", ErrAlreadyExists, http.StatusConflict, CodeConflict},
		{"already friends", ErrAlreadyFriends, http.StatusConflict, CodeAlreadyFriends},
		{"duplicate pending", ErrDuplicatePending, http.StatusConflict, CodeDuplicatePending},
		{"unauthenticated", ErrUnauthorized, http.StatusUnauthorized, CodeUnauthenticated},
		{"internal", errors.New("disk I/O error"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestSpecificErrorsWrapKinds(t *testing.T) {
	assert.ErrorIs(t, ErrNotFriends, ErrForbidden)
	assert.ErrorIs(t, ErrDuplicatePending, ErrAlreadyExists)
	assert.ErrorIs(t, ErrAlreadyFriends, ErrAlreadyExists)
	assert.ErrorIs(t, ErrSelfRequest, ErrBadRequest)
	assert.NotErrorIs(t, ErrDuplicatePending, ErrAlreadyFriends)
}

func TestErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("sqlite: database is locked"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, CodeInternal, resp.Code)
}

func TestErrorKeepsDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, ErrNotFriends)

	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, ErrNotFriends.Error(), resp.Error)
	assert.Equal(t, CodeNotFriends, resp.Code)
}

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"likes": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"likes":1}}`, rec.Body.String())
}

func TestErrorWithMessageCode(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithMessage(rec, http.StatusTooManyRequests, "slow down")

	assert.JSONEq(t, `{"success":false,"error":"slow down","code":"rate_limited"}`, rec.Body.String())
}
