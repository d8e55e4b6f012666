package peer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhost/skirmish/internal/domain"
)

func TestFrameRoundTrip(t *testing.T) {
	t.Run("hello", func(t *testing.T) {
		data, err := EncodeFrame(FrameHello, HelloMsg{CombatantID: 42, Name: "east-shard"})
		require.NoError(t, err)

		env, err := DecodeFrame(data)
		require.NoError(t, err)
		require.Equal(t, FrameHello, env.T)

		var hello HelloMsg
		require.NoError(t, DecodePayload(env, &hello))
		assert.Equal(t, domain.CombatantID(42), hello.CombatantID)
		assert.Equal(t, "east-shard", hello.Name)
	})

	t.Run("position", func(t *testing.T) {
		data, err := EncodeFrame(FramePosition, PositionMsg{X: 1.5, Y: -2, Z: 40})
		require.NoError(t, err)

		env, err := DecodeFrame(data)
		require.NoError(t, err)

		var pos PositionMsg
		require.NoError(t, DecodePayload(env, &pos))
		assert.Equal(t, PositionMsg{X: 1.5, Y: -2, Z: 40}, pos)
	})
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	_, err := DecodeFrame([]byte{0xc1, 0xc1, 0xc1})
	assert.Error(t, err)
}
