package sharebox_test

import (
	"testing"

	"github.com/sharebox/sharebox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenVerifier_EmptySecret(t *testing.T) {
	_, err := sharebox.NewTokenVerifier("")
	assert.ErrorIs(t, err, sharebox.ErrInvalidInput)
}

func TestTokenVerifier_Verify(t *testing.T) {
	v, err := sharebox.NewTokenVerifier("correct horse")
	require.NoError(t, err)

	assert.NoError(t, v.Verify("correct horse"))
	assert.ErrorIs(t, v.Verify(""), sharebox.ErrUnauthorized)
	assert.ErrorIs(t, v.Verify("correct"), sharebox.ErrUnauthorized)
	assert.ErrorIs(t, v.Verify("correct horse "), sharebox.ErrUnauthorized)
	assert.ErrorIs(t, v.Verify("Correct horse"), sharebox.ErrUnauthorized)
}

func TestTokenVerifier_NilRejects(t *testing.T) {
	var v *sharebox.TokenVerifier
	assert.ErrorIs(t, v.Verify("anything"), sharebox.ErrUnauthorized)
}
