package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	return &Server{
		Log:      zap.NewNop(),
		Operator: NewOperator("admin", string(hash)),
		JWT:      NewTokenMaker(testSecret),
		TokenTTL: time.Hour,
	}
}

func login(t *testing.T, h http.Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(raw))
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker(testSecret)

	tok, err := tm.New("admin", time.Minute)
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", c.Operator)
	assert.Equal(t, issuer, c.Issuer)
	assert.NotEmpty(t, c.ID)
}

func TestTokenMaker_Rejects(t *testing.T) {
	tm := NewTokenMaker(testSecret)
	tok, err := tm.New("admin", time.Minute)
	require.NoError(t, err)

	_, err = NewTokenMaker("another-secret-another-secret-xx").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenMaker(testSecret)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = expired.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOperator_Verify(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	op := NewOperator(" admin ", hash)

	assert.NoError(t, op.Verify("admin", "hunter22"))
	assert.ErrorIs(t, op.Verify("admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, op.Verify("root", "hunter22"), ErrInvalidCredentials)

	_, err = HashPassword("  ")
	assert.Error(t, err)
}

func TestLogin_IssuesTokenAcceptedByGuard(t *testing.T) {
	s := newTestServer(t)
	h := s.Routes()

	rec := login(t, h, map[string]string{"username": "admin", "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"operator":"admin"}`, rec.Body.String())
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)
	h := s.Routes()

	rec := login(t, h, map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = login(t, h, map[string]string{"username": "", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Two attempts above plus three more reach the per-IP limit.
	for i := 0; i < 3; i++ {
		login(t, h, map[string]string{"username": "admin", "password": "nope"})
	}
	rec = login(t, h, map[string]string{"username": "admin", "password": "hunter22"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRequireOperator(t *testing.T) {
	s := newTestServer(t)
	h := s.RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := OperatorFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "admin", name)
		w.WriteHeader(http.StatusNoContent)
	}))

	tok, err := s.JWT.New("admin", time.Minute)
	require.NoError(t, err)

	for _, tc := range []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer garbage", http.StatusUnauthorized},
		{"Bearer " + tok, http.StatusNoContent},
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/c/product/add", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.header)
	}
}
