// Package testkit holds shared test helpers: a mock HTTP transport for
// outgoing calls and JSON response assertions.
package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, want, got int) {
	t.Helper()
	assert.Equal(t, want, got, "HTTP status code mismatch")
}

// AssertJSONBody deep-compares two JSON documents after normalising both
// through unmarshal, so key order and whitespace never matter.
func AssertJSONBody(t *testing.T, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"expected response is not valid JSON",
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"actual response is not valid JSON\nbody: %s", string(actual),
	) {
		return
	}

	assert.Equal(t, expVal, actVal, "response body mismatch")
}

// AssertMocksAllCalled fails the test if any registered mock rule was
// never triggered.
func AssertMocksAllCalled(t *testing.T, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.Unmatched() {
		assert.NoError(t, err)
	}
}
