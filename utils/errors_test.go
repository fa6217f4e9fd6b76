package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordResponse(t *testing.T, respond func(c *gin.Context)) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respond(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondWithError(t *testing.T) {
	code, body := recordResponse(t, func(c *gin.Context) {
		RespondWithError(c, http.StatusConflict, "email_exists", "Email already registered", nil)
	})

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "email_exists", body["error_code"])
	assert.Equal(t, "Email already registered", body["message"])
	_, hasDetails := body["details"]
	assert.False(t, hasDetails)
}

func TestRespondWithErrorIncludesDetails(t *testing.T) {
	code, body := recordResponse(t, func(c *gin.Context) {
		RespondWithError(c, http.StatusForbidden, "forbidden", "Insufficient permissions", gin.H{"user_role": "paralegal"})
	})

	assert.Equal(t, http.StatusForbidden, code)
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "paralegal", details["user_role"])
}

func TestRespondShorthands(t *testing.T) {
	cases := []struct {
		name       string
		respond    func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(c *gin.Context) { RespondWithBadRequest(c, "Invalid request data", nil) }, http.StatusBadRequest, "bad_request"},
		{"unauthorized", func(c *gin.Context) { RespondWithUnauthorized(c, "Authentication token is required") }, http.StatusUnauthorized, "unauthorized"},
		{"not found", func(c *gin.Context) { RespondWithNotFound(c, "User not found") }, http.StatusNotFound, "not_found"},
		{"internal", func(c *gin.Context) { RespondWithInternalError(c, "Failed to create user", nil) }, http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := recordResponse(t, tc.respond)
			assert.Equal(t, tc.wantStatus, code)
			assert.Equal(t, tc.wantCode, body["error_code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}
