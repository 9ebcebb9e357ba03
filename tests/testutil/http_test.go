package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func echoHandler(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "VALIDATION_ERROR", "message": err.Error()},
		})
		return
	}
	body["id"] = c.Param("id")
	body["branch"] = c.GetString("branch")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
}

func TestRunHTTPTestCases(t *testing.T) {
	RunHTTPTestCases(t, echoHandler, []HTTPTestCase{
		{
			Name:           "params setup and body reach the handler",
			Method:         http.MethodPost,
			Body:           map[string]any{"serial": "356938035643809"},
			Params:         gin.Params{{Key: "id", Value: "u-1"}},
			Setup:          func(_ *testing.T, tc *TestContext) { tc.Set("branch", "shop-a") },
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *TestContext) {
				data := Data[map[string]string](t, tc)
				assert.Equal(t, "356938035643809", data["serial"])
				assert.Equal(t, "u-1", data["id"])
				assert.Equal(t, "shop-a", data["branch"])
			},
		},
		{
			Name:           "missing body fails with the error code",
			Method:         http.MethodPost,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   "VALIDATION_ERROR",
			Validate: func(t *testing.T, tc *TestContext) {
				assert.NotEmpty(t, ErrorOf(t, tc).Message)
			},
		},
	})
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t, http.MethodGet, "/units?page=2")
	assert.Equal(t, "2", tc.Context.Query("page"))

	tc.Context.JSON(http.StatusTeapot, gin.H{"success": true})
	assert.Equal(t, http.StatusTeapot, tc.ResponseCode())
	assert.Equal(t, true, JSONResponse(t, tc)["success"])
}
