package creds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := New("test-secret")

	ct, err := c.Encrypt("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", ct)

	pt, err := c.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pt)
}

func TestEmptyValuesPassThrough(t *testing.T) {
	c := New("test-secret")

	ct, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, ct)

	pt, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, pt)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	c := New("test-secret")

	ct, err := c.Encrypt("secret value")
	require.NoError(t, err)

	_, err = New("other-secret").Decrypt(ct)
	assert.Error(t, err)

	_, err = c.Decrypt("bm90IGEgcmVhbCBjaXBoZXJ0ZXh0")
	assert.Error(t, err)
}
