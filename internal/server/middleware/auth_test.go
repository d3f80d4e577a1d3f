package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClaims struct {
	ownerID uuid.UUID
}

func (c *testClaims) GetOwnerID() uuid.UUID {
	return c.ownerID
}

type testTokenValidator map[string]uuid.UUID

func (v testTokenValidator) ValidateToken(token string) (OwnerClaims, error) {
	ownerID, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &testClaims{ownerID: ownerID}, nil
}

func serve(t *testing.T, validator TokenValidator, header string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()
	var seen uuid.UUID
	called := false
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, err := OwnerID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/cv/generate", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	ownerID := uuid.New()
	validator := testTokenValidator{"good": ownerID}

	for _, header := range []string{"Bearer good", "bearer good", "BEARER   good"} {
		rec, seen, called := serve(t, validator, header)
		assert.Equal(t, http.StatusOK, rec.Code, header)
		assert.True(t, called)
		assert.Equal(t, ownerID, seen)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	validator := testTokenValidator{"good": uuid.New(), "nil-owner": uuid.Nil}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic good"},
		{name: "no token", header: "Bearer"},
		{name: "extra parts", header: "Bearer good extra"},
		{name: "unknown token", header: "Bearer bad"},
		{name: "token without owner", header: "Bearer nil-owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := serve(t, validator, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestOwnerID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := OwnerID(req)
	assert.ErrorIs(t, err, ErrNoOwner)
}

func TestWithOwnerID(t *testing.T) {
	ownerID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithOwnerID(req.Context(), ownerID))

	got, err := OwnerID(req)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}
