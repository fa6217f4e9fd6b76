package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/models"
	"legal-assistant-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func testRouter(t *testing.T) (*gin.Engine, *AuthMiddleware) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWTSecret: testSecret}
	authMW := NewAuthMiddleware(cfg)
	router := gin.New()
	return router, authMW
}

func doRequest(router *gin.Engine, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRequireAuthMissingToken(t *testing.T) {
	router, authMW := testRouter(t)
	router.GET("/protected", authMW.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w, body := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", body["error_code"])
}

func TestRequireAuthInvalidToken(t *testing.T) {
	router, authMW := testRouter(t)
	router.GET("/protected", authMW.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w, body := doRequest(router, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", body["error_code"])
}

func TestRequireAuthSetsIdentity(t *testing.T) {
	router, authMW := testRouter(t)
	router.GET("/protected", authMW.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c)})
	})

	token, err := utils.GenerateJWT("user-1", models.RoleLawyer, testSecret, time.Hour)
	require.NoError(t, err)

	w, body := doRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, models.RoleLawyer, body["role"])
}

func TestRequireRolesRejectsParalegal(t *testing.T) {
	router, authMW := testRouter(t)
	router.GET("/protected",
		authMW.RequireAuth(),
		authMW.RequireRoles(models.RoleAdmin, models.RoleLawyer),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

	token, err := utils.GenerateJWT("user-2", models.RoleParalegal, testSecret, time.Hour)
	require.NoError(t, err)

	w, body := doRequest(router, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", body["error_code"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, models.RoleParalegal, details["user_role"])
}

func TestRequireRolesAllowsLawyer(t *testing.T) {
	router, authMW := testRouter(t)
	router.GET("/protected",
		authMW.RequireAuth(),
		authMW.RequireRoles(models.RoleAdmin, models.RoleLawyer),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

	token, err := utils.GenerateJWT("user-3", models.RoleLawyer, testSecret, time.Hour)
	require.NoError(t, err)

	w, _ := doRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
