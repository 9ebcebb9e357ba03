// Package testutil holds the shared fixtures of the backend tests: a seeded
// in-memory store and helpers for driving gin handlers through the API envelope.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gadgetstock/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestContext wraps a gin test context with its recorder
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewTestContext creates a gin context for a bodiless request to target
func NewTestContext(t *testing.T, method, target string) *TestContext {
	t.Helper()
	return newTestContext(httptest.NewRequest(method, target, nil))
}

func newTestContext(req *http.Request) *TestContext {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return &TestContext{Context: c, Recorder: w}
}

// Set stores a value on the gin context, as middleware would
func (tc *TestContext) Set(key string, value any) {
	tc.Context.Set(key, value)
}

// ResponseBody returns the response body as bytes
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// HTTPTestCase drives one handler call. Body is marshalled to JSON when set;
// ExpectedCode, when set, is the error code the envelope must carry.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Body           any
	Headers        map[string]string
	Params         gin.Params
	ExpectedStatus int
	ExpectedCode   string
	Setup          func(t *testing.T, tc *TestContext)
	Validate       func(t *testing.T, tc *TestContext)
}

// RunHTTPTestCases runs each case as a subtest
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase runs a single case
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}
	var body io.Reader
	if tc.Body != nil {
		body = ToJSONReader(t, tc.Body)
	}
	req := httptest.NewRequest(method, path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	testCtx := newTestContext(req)
	testCtx.Context.Params = tc.Params
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(testCtx.Context)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, testCtx.Recorder.Code, "Unexpected status code: %s", testCtx.Recorder.Body.String())
	}
	if tc.ExpectedCode != "" {
		AssertErrorResponse(t, testCtx, tc.ExpectedCode)
	}
	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

// JSONResponse parses the response body as a generic JSON object
func JSONResponse(t *testing.T, tc *TestContext) map[string]any {
	t.Helper()
	return JSONResponseAs[map[string]any](t, tc)
}

// JSONResponseAs parses the response body into T
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "Failed to parse JSON response")
	return result
}

// Data unwraps the data of a successful envelope
func Data[T any](t *testing.T, tc *TestContext) T {
	t.Helper()
	var envelope struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &envelope), "Failed to parse JSON response")
	require.True(t, envelope.Success, "Expected a success envelope: %s", tc.Recorder.Body.String())
	return envelope.Data
}

// ErrorOf unwraps the error of a failed envelope
func ErrorOf(t *testing.T, tc *TestContext) dto.ErrorInfo {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Error   *dto.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &envelope), "Failed to parse JSON response")
	require.False(t, envelope.Success, "Expected an error envelope")
	require.NotNil(t, envelope.Error, "Expected error object in response")
	return *envelope.Error
}

// AssertErrorResponse asserts the envelope failed with expectedCode
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()
	assert.Equal(t, expectedCode, ErrorOf(t, tc).Code, "Unexpected error code")
}

// ToJSONReader marshals v for use as a request body
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
