package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuth(t *testing.T) {
	logger := zap.NewNop()

	t.Run("rejects a request without identity", func(t *testing.T) {
		handler := Auth(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a malformed user ID", func(t *testing.T) {
		handler := Auth(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil)
		req.Header.Set(HeaderUserID, "not-a-uuid")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("puts identity on the context", func(t *testing.T) {
		userID := uuid.New()
		handler := Auth(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := utils.GetUserIDFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, userID, got)
			assert.True(t, utils.IsAdminFromContext(r.Context()))
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil)
		req.Header.Set(HeaderUserID, userID.String())
		req.Header.Set(HeaderRole, "admin")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("defaults the role to customer", func(t *testing.T) {
		handler := Auth(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, utils.IsAdminFromContext(r.Context()))
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil)
		req.Header.Set(HeaderUserID, uuid.NewString())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdmin(t *testing.T) {
	logger := zap.NewNop()

	chain := func(next http.Handler) http.Handler {
		return Auth(logger)(Admin(logger)(next))
	}

	t.Run("forbids non-admin users", func(t *testing.T) {
		handler := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set(HeaderUserID, uuid.NewString())
		req.Header.Set(HeaderRole, "customer")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("passes admins through", func(t *testing.T) {
		handler := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
		req.Header.Set(HeaderUserID, uuid.NewString())
		req.Header.Set(HeaderRole, "admin")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
