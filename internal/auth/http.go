package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"NexStock/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20

	loginLimitPerMin = 5
	limitWindow      = 60 * time.Second
)

type Server struct {
	Log      *zap.Logger
	Operator Operator
	JWT      *TokenMaker
	TokenTTL time.Duration
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)

	r.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
	r.With(s.RequireOperator).Get("/whoami", s.handleWhoAmI)

	return r
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "username/password required", nil)
		return
	}

	if err := s.Operator.Verify(req.Username, req.Password); err != nil {
		s.logger().Warn("operator login rejected", zap.String("username", req.Username))
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	tok, err := s.JWT.New(s.Operator.Name, s.TokenTTL)
	if err != nil {
		s.logger().Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok, ExpiresIn: int64(s.TokenTTL.Seconds())})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	name, _ := OperatorFromContext(r.Context())
	kit.WriteJSON(w, http.StatusOK, map[string]any{"operator": name})
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
