package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "http://cdn.test/storage/")

	require.NoError(t, d.Put(ctx, "receipts/RCP-00000001.json", []byte(`{"ok":true}`)))

	ok, err := d.Exists(ctx, "receipts/RCP-00000001.json")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := d.Get(ctx, "receipts/RCP-00000001.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	files, err := d.Files(ctx, "receipts")
	require.NoError(t, err)
	assert.Equal(t, []string{"receipts/RCP-00000001.json"}, files)

	assert.Equal(t, "http://cdn.test/storage/receipts/RCP-00000001.json", d.URL("receipts/RCP-00000001.json"))

	require.NoError(t, d.Delete(ctx, "receipts/RCP-00000001.json"))
	require.NoError(t, d.Delete(ctx, "receipts/RCP-00000001.json"), "deleting twice is fine")

	_, err = d.Get(ctx, "receipts/RCP-00000001.json")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalDiskPathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := NewLocalDisk(root, "")

	require.NoError(t, d.Put(ctx, "../../escape.json", []byte("x")))

	ok, err := d.Exists(ctx, "escape.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManagerDefaultFallsBackToLocal(t *testing.T) {
	m := New("s3")
	local := NewLocalDisk(t.TempDir(), "")
	m.Register("local", local)

	assert.Same(t, local, m.Default())

	_, err := m.Use("s3")
	assert.Error(t, err)
}
