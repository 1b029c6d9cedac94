package cache

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/gudgeon/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Key_OrderIndependent(t *testing.T) {
	assert := assert.New(t)

	a := []Entry{{Pattern: "[a-z]+", Priority: 0}, {Pattern: "[0-9]+", Priority: 1}}
	b := []Entry{{Pattern: "[0-9]+", Priority: 1}, {Pattern: "[a-z]+", Priority: 0}}

	assert.Equal(Key(a), Key(b))
}

func Test_Key_DistinguishesDifferentRuleSets(t *testing.T) {
	assert := assert.New(t)

	a := []Entry{{Pattern: "[a-z]+", Priority: 0}}
	b := []Entry{{Pattern: "[a-z]+", Priority: 1}}

	assert.NotEqual(Key(a), Key(b))
}

func Test_Store_PutGetRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(dbPath)
	require.NoError(err)
	defer store.Close()

	code := []ir.Op[string]{
		{Kind: ir.JumpNotMatches, Lo: '0', Hi: '9', Dst: 2},
		{Kind: ir.Set, Val: "INT"},
		{Kind: ir.Halt},
	}

	key := Key([]Entry{{Pattern: "[0-9]+", Priority: 0}})

	buildID, err := store.Put(key, code)
	require.NoError(err)
	assert.NotEqual("", buildID.String())

	got, gotID, found, err := store.Get(key)
	require.NoError(err)
	require.True(found)
	assert.Equal(buildID, gotID)
	assert.Equal(code, got)
}

func Test_Store_GetMissingKey(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(dbPath)
	require.NoError(err)
	defer store.Close()

	_, _, found, err := store.Get(Key([]Entry{{Pattern: "x", Priority: 0}}))
	require.NoError(err)
	assert.False(found)
}

func Test_Store_PutReplacesExistingEntryForSameKey(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := Open(dbPath)
	require.NoError(err)
	defer store.Close()

	key := Key([]Entry{{Pattern: "a", Priority: 0}})

	_, err = store.Put(key, []ir.Op[string]{{Kind: ir.Halt}})
	require.NoError(err)

	secondID, err := store.Put(key, []ir.Op[string]{{Kind: ir.Set, Val: "A"}, {Kind: ir.Halt}})
	require.NoError(err)

	got, gotID, found, err := store.Get(key)
	require.NoError(err)
	require.True(found)
	assert.Equal(secondID, gotID)
	assert.Equal([]ir.Op[string]{{Kind: ir.Set, Val: "A"}, {Kind: ir.Halt}}, got)
}
