package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncrypted_KeyRotation(t *testing.T) {
	ctx := context.Background()
	inner := NewMemorySlot()
	oldKey, newKey := randomKey(t), randomKey(t)

	before, err := Encrypted(inner, oldKey)
	require.NoError(t, err)
	require.NoError(t, before.Write(ctx, []byte("secret")))

	rotated, err := Encrypted(inner, newKey, oldKey)
	require.NoError(t, err)
	got, err := rotated.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret", string(got))

	withoutOld, err := Encrypted(inner, newKey)
	require.NoError(t, err)
	_, err = withoutOld.Read(ctx)
	assert.Error(t, err, "reading with an unknown key must fail")
}

func TestEncrypted_PlaintextPassThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemorySlot()
	require.NoError(t, inner.Write(ctx, []byte(`{"version":1,"accounts":[],"transactions":[]}`)))

	slot, err := Encrypted(inner, randomKey(t))
	require.NoError(t, err)
	got, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"accounts":[],"transactions":[]}`, string(got))
}

func TestEncrypted_InvalidKeys(t *testing.T) {
	_, err := Encrypted(NewMemorySlot(), []byte("short"))
	assert.Error(t, err)
	_, err = Encrypted(NewMemorySlot(), randomKey(t), []byte("short"))
	assert.Error(t, err)
}
