package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCursorPageInfo(t *testing.T) {
	rows := []int{5, 4, 3, 2, 1}
	cursorOf := func(v int) (string, error) {
		return EncodeCursor(Cursor{ID: strconv.Itoa(v)})
	}

	info, page, err := BuildCursorPageInfo(rows, 2, cursorOf)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4}, page)
	assert.True(t, info.HasMore)

	cursor, err := DecodeCursor(info.NextPageToken)
	require.NoError(t, err)
	assert.Equal(t, "4", cursor.ID)

	// a final page keeps every row and carries no token
	info, page, err = BuildCursorPageInfo(rows, 5, cursorOf)
	require.NoError(t, err)
	assert.Equal(t, rows, page)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)

	info, page, err = BuildCursorPageInfo([]int{}, 2, cursorOf)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, info.HasMore)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not base64 at all!")
	assert.Error(t, err)
}
