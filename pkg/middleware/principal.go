package middleware

import (
	"net/http"
	"strings"

	"loftalgerie/pkg/auth"
	"loftalgerie/pkg/client"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"
)

// Principal builds the caller identity from the gateway headers and stores it
// in the request context. Requests without a user ID or with an unknown role
// are rejected with 401.
func Principal(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, reason := principalFromHeaders(r)
			if p == nil {
				log.Warn("Request rejected without a valid principal",
					"request_id", RequestIDFrom(r.Context()),
					"reason", reason,
					"path", r.URL.Path,
				)
				reject(w, errAuthenticationRequired)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func principalFromHeaders(r *http.Request) (*model.Principal, string) {
	userID := strings.TrimSpace(r.Header.Get(client.HeaderUserID))
	if userID == "" {
		return nil, "missing " + client.HeaderUserID
	}

	role := model.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(client.HeaderUserRole))))
	if !role.Valid() {
		return nil, "invalid " + client.HeaderUserRole
	}

	p := &model.Principal{
		UserID: userID,
		Role:   role,
		Email:  strings.TrimSpace(r.Header.Get(client.HeaderUserEmail)),
	}
	if role == model.RolePartner {
		p.OwnerID = strings.TrimSpace(r.Header.Get(client.HeaderOwnerID))
	}
	return p, ""
}
