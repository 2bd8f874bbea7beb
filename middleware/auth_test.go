package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/scoring-engine/models"
	"github.com/golang-jwt/jwt/v4"
)

var secret = []byte("middleware-secret")

func protected(roles ...models.UserRole) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil || id != 9 {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(secret)(Authorize(roles...)(final))
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	scorer, err := IssueToken(secret, 9, models.RoleScorer, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := IssueToken(secret, 9, models.RoleScorer, -time.Minute)
	foreign, _ := IssueToken([]byte("other"), 9, models.RoleScorer, time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 9, "role": "scorer"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		header string
		roles  []models.UserRole
		want   int
	}{
		{"scorer allowed", "Bearer " + scorer, []models.UserRole{models.RoleScorer}, http.StatusOK},
		{"wrong role", "Bearer " + scorer, []models.UserRole{models.RoleOrganizer}, http.StatusForbidden},
		{"missing header", "", []models.UserRole{models.RoleScorer}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", []models.UserRole{models.RoleScorer}, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, []models.UserRole{models.RoleScorer}, http.StatusUnauthorized},
		{"foreign key", "Bearer " + foreign, []models.UserRole{models.RoleScorer}, http.StatusUnauthorized},
		{"alg none", "Bearer " + none, []models.UserRole{models.RoleScorer}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(tt.roles...).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
