package audio

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_Length(t *testing.T) {
	pcm := Synthesize([]Tone{{Frequency: 440, Duration: time.Second}})

	assert.Len(t, pcm, SampleRate*bytesPerFrame)
}

func TestSynthesize_FadesOut(t *testing.T) {
	pcm := Synthesize([]Tone{{Frequency: 440, Duration: time.Second}})
	require.NotEmpty(t, pcm)

	peak := func(from, to int) int16 {
		var top int16
		for i := from; i < to; i += bytesPerFrame {
			v := int16(binary.LittleEndian.Uint16(pcm[i:]))
			if v > top {
				top = v
			}
		}
		return top
	}

	head := peak(0, len(pcm)/10)
	tail := peak(len(pcm)-len(pcm)/10, len(pcm))
	assert.Greater(t, head, int16(0))
	assert.Less(t, tail, head)
}

func TestSynthesize_ChannelsMatch(t *testing.T) {
	pcm := Synthesize(ReminderChime)
	require.Zero(t, len(pcm)%bytesPerFrame)

	for i := 0; i < len(pcm); i += bytesPerFrame * 97 {
		assert.Equal(t, pcm[i:i+2], pcm[i+2:i+4])
	}
}

func TestPlayer_StopNil(t *testing.T) {
	var p *Player
	assert.NotPanics(t, p.Stop)
}
