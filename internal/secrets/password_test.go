package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/DanielFillol/linkedin-people-scraper/internal/secrets"
)

func TestPassword(t *testing.T) {
	keyring.MockInit()

	pw, err := secrets.Password("me@example.com", "from-env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)

	_, err = secrets.Password("me@example.com", "")
	assert.ErrorIs(t, err, secrets.ErrNoPassword)

	require.NoError(t, secrets.SetPassword("me@example.com", "s3cret"))
	pw, err = secrets.Password("me@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	require.NoError(t, secrets.DeletePassword("me@example.com"))
	require.NoError(t, secrets.DeletePassword("me@example.com"))
	_, err = secrets.Password("me@example.com", "")
	assert.ErrorIs(t, err, secrets.ErrNoPassword)
}

func TestAccountRequired(t *testing.T) {
	keyring.MockInit()

	_, err := secrets.Password(" ", "")
	assert.ErrorIs(t, err, secrets.ErrNoPassword)
	assert.ErrorIs(t, secrets.SetPassword("", "pw"), secrets.ErrNoAccount)
	assert.ErrorIs(t, secrets.DeletePassword(""), secrets.ErrNoAccount)
	assert.Error(t, secrets.SetPassword("me", " "))
}
