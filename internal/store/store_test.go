// ABOUTME: Unit tests for the sqlite token store
// ABOUTME: Uses a temp database file per test

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadMissingTokenIsEmpty(t *testing.T) {
	s := openTemp(t)

	token, err := s.LoadToken("example")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSaveAndLoadToken(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.SaveToken("example", "tok-1"))

	token, err := s.LoadToken("example")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestSaveReplacesToken(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.SaveToken("example", "tok-1"))
	require.NoError(t, s.SaveToken("example", "tok-2"))

	token, err := s.LoadToken("example")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestTokensAreScopedByTarget(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.SaveToken("ci", "tok-ci"))
	require.NoError(t, s.SaveToken("staging", "tok-staging"))

	token, err := s.LoadToken("ci")
	require.NoError(t, err)
	assert.Equal(t, "tok-ci", token)

	require.NoError(t, s.DeleteToken("ci"))
	token, err = s.LoadToken("ci")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = s.LoadToken("staging")
	require.NoError(t, err)
	assert.Equal(t, "tok-staging", token)
}
