package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeData reads an enveloped response and unmarshals its data field into v
func DecodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	err = json.Unmarshal(body, &env)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
	require.True(t, env.Success, "expected success response: %s", string(body))

	if v != nil {
		err = json.Unmarshal(env.Data, v)
		require.NoError(t, err, "failed to unmarshal data: %s", string(body))
	}
}

// AssertErrorResponse verifies an error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	err = json.Unmarshal(body, &env)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))

	assert.False(t, env.Success, "expected failure response")
	assert.Contains(t, env.Error, expectedMessage, "error message mismatch")
}
