package board_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/chessroom/pkg/board"
)

func TestColorJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(board.Black)
	require.NoError(t, err)
	assert.Equal(t, `"Black"`, string(data))

	var c board.Color
	require.NoError(t, json.Unmarshal([]byte(`"white"`), &c))
	assert.Equal(t, board.White, c)

	assert.Error(t, json.Unmarshal([]byte(`"purple"`), &c))
}

func TestKindJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(board.Knight)
	require.NoError(t, err)
	assert.Equal(t, `"Knight"`, string(data))

	var k board.Kind
	require.NoError(t, json.Unmarshal([]byte(`"Queen"`), &k))
	assert.Equal(t, board.Queen, k)

	assert.Error(t, json.Unmarshal([]byte(`"dragon"`), &k))
}
