package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type MemberStore interface {
	IsMember(ctx context.Context, orgID, userID string) (bool, error)
}

// RequireMember lets the request through only when the authenticated user
// belongs to the organization named by the orgParam route parameter.
func RequireMember(members MemberStore, orgParam string, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			orgID := chi.URLParam(r, orgParam)
			if orgID == "" {
				writeError(w, http.StatusNotFound, "organization_not_found")
				return
			}
			member, err := members.IsMember(r.Context(), orgID, userID)
			if err != nil {
				log.WithError(err).WithField("org_id", orgID).Error("membership check failed")
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			if !member {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
