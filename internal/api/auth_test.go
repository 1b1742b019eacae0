package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmchat/dmserver/internal/config"
	"github.com/dmchat/dmserver/internal/database"
	"github.com/dmchat/dmserver/internal/testutil"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("password")
	require.NoError(t, err, "expected no error hashing password")
	assert.NotEqual(t, "password", hash, "expected hash to differ from the plain password")

	assert.True(t, verifyPassword(hash, "password"), "expected correct password to verify")
	assert.False(t, verifyPassword(hash, "wrong"), "expected wrong password to fail")
}

func TestCreateAndVerifyAuthToken(t *testing.T) {
	app := newTestApp(t, &database.MockDMRepository{})

	token, err := app.createAuthToken(1, defaultTokenExpiration)
	require.NoError(t, err, "expected no error creating token")
	assert.NoError(t, app.verifyToken(token), "expected token to verify")

	other, err := app.createAuthToken(1, defaultTokenExpiration)
	require.NoError(t, err, "expected no error creating token")
	assert.NotEqual(t, token, other, "expected consecutive tokens to differ")
}

func TestVerifyToken_WrongKey(t *testing.T) {
	app := newTestApp(t, &database.MockDMRepository{})
	token, err := app.createAuthToken(1, defaultTokenExpiration)
	require.NoError(t, err)

	otherApp := NewDMChatApp(http.NewServeMux(), testutil.TestLogger(t), nil, &database.MockDMRepository{}, nil, &config.Config{
		ServerAddr: "localhost:8000",
		SigningKey: []byte("a-different-key"),
	})

	assert.Error(t, otherApp.verifyToken(token), "expected token signed with another key to fail")
}

func TestUserIdContext(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	_, ok := UserId(req.Context())
	assert.False(t, ok, "expected no user id on a bare context")

	ctx := WithUserId(req.Context(), 7)
	userId, ok := UserId(ctx)
	assert.True(t, ok, "expected user id to be present")
	assert.Equal(t, 7, userId, "expected stored user id")
}
