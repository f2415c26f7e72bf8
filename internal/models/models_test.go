package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleParent, RoleCook, RoleChild, RoleAdmin} {
		assert.True(t, ValidRole(role), role)
	}
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("butler"))
	assert.False(t, ValidRole("Parent"))
}

func TestJSONBStringArrayRoundTrip(t *testing.T) {
	value, err := JSONBStringArray{"egg", "milk"}.Value()
	require.NoError(t, err)

	var scanned JSONBStringArray
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, JSONBStringArray{"egg", "milk"}, scanned)
}

func TestJSONBStringArrayEmpty(t *testing.T) {
	value, err := JSONBStringArray{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	var scanned JSONBStringArray
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}

func TestJSONBMapRoundTrip(t *testing.T) {
	value, err := JSONBMap{"favorite_color": "green"}.Value()
	require.NoError(t, err)

	var scanned JSONBMap
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, "green", scanned["favorite_color"])
}

func TestJSONBMapNil(t *testing.T) {
	value, err := JSONBMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)

	var scanned JSONBMap
	require.NoError(t, scanned.Scan(nil))
	assert.NotNil(t, scanned)
}
