package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/auth/jwt"
	"github.com/reactivities/reactivities/pkg/storage/memory"
	transporthttp "github.com/reactivities/reactivities/pkg/transport/http"
)

func startAPI(t *testing.T) string {
	t.Helper()
	t.Setenv("REACTIVITIES_CONFIG", "")

	srv, err := transporthttp.NewServer(memory.New(0))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

// runApp runs the CLI with args and returns stdout, stderr and the error.
func runApp(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	argv := append([]string{"activities", "--api-url", apiURL, "--delay", "0s"}, args...)
	err := newApp(&stdout, &stderr).Run(argv)
	return stdout.String(), stderr.String(), err
}

func TestActivityLifecycle(t *testing.T) {
	url := startAPI(t)

	out, _, err := runApp(t, url, "list")
	require.NoError(t, err)
	assert.Equal(t, "No activities.\n", out)

	out, _, err = runApp(t, url, "create",
		"--title", "Film night",
		"--date", "2026-07-01T19:00:00Z",
		"--description", "Something scary",
		"--category", "film",
		"--city", "London",
		"--venue", "Cinema",
	)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.True(t, api.ValidateActivityID(id), "created id %q", id)

	out, _, err = runApp(t, url, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-07-01\n")
	assert.Contains(t, out, "19:00  Film night [film] Cinema, London")

	out, _, err = runApp(t, url, "update", id, "--venue", "Odeon")
	require.NoError(t, err)
	var updated api.Activity
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "Odeon", updated.Venue)
	assert.Equal(t, "Film night", updated.Title)

	out, _, err = runApp(t, url, "details", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"venue": "Odeon"`)

	_, _, err = runApp(t, url, "delete", id)
	require.NoError(t, err)

	_, _, err = runApp(t, url, "details", id)
	require.Error(t, err)
	assert.Equal(t, "not found", err.Error())
}

func TestCreateValidationFailure(t *testing.T) {
	url := startAPI(t)

	_, _, err := runApp(t, url, "create", "--title", "Only a title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed:")
	assert.Contains(t, err.Error(), "'Venue' must not be empty.")
	assert.NotContains(t, err.Error(), "'Title' must not be empty.")
}

func TestDetailsMalformedID(t *testing.T) {
	url := startAPI(t)

	_, stderr, err := runApp(t, url, "details", "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "not found", err.Error())
	assert.Empty(t, stderr)
}

func TestDetailsRequiresID(t *testing.T) {
	url := startAPI(t)

	_, _, err := runApp(t, url, "details")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage:")
}

func TestTokenCommand(t *testing.T) {
	url := startAPI(t)
	secret := strings.Repeat("s", jwt.MinSecretLength)

	out, _, err := runApp(t, url, "token", "--username", "bob", "--display-name", "Bob", "--secret", secret)
	require.NoError(t, err)

	var user api.UserDto
	require.NoError(t, json.Unmarshal([]byte(out), &user))
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "Bob", user.DisplayName)

	authn, err := jwt.New(jwt.Config{Secret: secret, Issuer: "reactivities"})
	require.NoError(t, err)
	claims, err := authn.Parse(user.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
}
