package auth

import (
	"context"
	"net/http"

	"NexStock/pkg/kit"
)

type ctxKey string

const operatorKey ctxKey = "operator"

func OperatorFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorKey).(string)
	return v, ok
}

// RequireOperator rejects requests without a valid operator token.
func (s *Server) RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := kit.BearerToken(r)
		if !ok {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
			return
		}

		claims, err := s.JWT.Parse(tok)
		if err != nil {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), operatorKey, claims.Operator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
