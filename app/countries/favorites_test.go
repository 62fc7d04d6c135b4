package countries

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteSet_Toggle(t *testing.T) {
	original := NewFavoriteSet("FR")

	added := original.Toggle("DE")
	assert.True(t, added.Contains("DE"))
	assert.False(t, original.Contains("DE"), "input must not change")

	removed := added.Toggle("DE")
	assert.Equal(t, original, removed)

	var empty FavoriteSet
	assert.True(t, empty.Toggle("JP").Contains("JP"))
}

func TestFavoriteSet_JSON(t *testing.T) {
	data, err := json.Marshal(NewFavoriteSet("NG", "DE", "FR"))
	require.NoError(t, err)
	assert.JSONEq(t, `["DE","FR","NG"]`, string(data))

	var set FavoriteSet
	require.NoError(t, json.Unmarshal([]byte(`["JP","BR"]`), &set))
	assert.Equal(t, []string{"BR", "JP"}, set.Codes())
	assert.Equal(t, 2, set.Len())

	assert.Error(t, json.Unmarshal([]byte(`{"JP":true}`), &set))
}
