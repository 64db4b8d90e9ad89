package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/davinrk/venuely/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

func mintToken(t *testing.T, userID uuid.UUID, role string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"email":   "test@example.com",
		"role":    role,
		"exp":     time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.GET("/protected/:id", chain...)
	return r
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
	protectedRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
	req.Header.Set("Authorization", "Token abcdef")
	protectedRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := mintToken(t, uuid.New(), models.RoleUser, -time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-different-secret")

	token := mintToken(t, uuid.New(), models.RoleUser, time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddleware_ValidTokenAttachesClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	userID := uuid.New()
	token := mintToken(t, userID, models.RoleOrganizer, time.Hour)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protectedRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
	assert.Contains(t, rec.Body.String(), models.RoleOrganizer)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleOrganizer, http.StatusForbidden},
		{models.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		token := mintToken(t, uuid.New(), tt.role, time.Hour)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		protectedRouter(RequireAdmin()).ServeHTTP(rec, req)

		assert.Equalf(t, tt.want, rec.Code, "role %s", tt.role)
	}
}

func TestRequireOrganizer_AllowsOrganizerAndAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleOrganizer, http.StatusOK},
		{models.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		token := mintToken(t, uuid.New(), tt.role, time.Hour)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		protectedRouter(RequireOrganizer()).ServeHTTP(rec, req)

		assert.Equalf(t, tt.want, rec.Code, "role %s", tt.role)
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	selfID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name    string
		role    string
		tokenID uuid.UUID
		pathID  uuid.UUID
		want    int
	}{
		{"own resource", models.RoleUser, selfID, selfID, http.StatusOK},
		{"someone else's resource", models.RoleUser, selfID, otherID, http.StatusForbidden},
		{"admin accessing anyone", models.RoleAdmin, selfID, otherID, http.StatusOK},
	}

	for _, tt := range tests {
		token := mintToken(t, tt.tokenID, tt.role, time.Hour)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/"+tt.pathID.String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		protectedRouter(RequireSelfOrAdmin("id")).ServeHTTP(rec, req)

		assert.Equalf(t, tt.want, rec.Code, "%s", tt.name)
	}
}
