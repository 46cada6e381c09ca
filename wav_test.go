package denoise_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	denoise "github.com/noisereduction/denoise-go"
)

func TestWriteWAV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, denoise.WriteWAV(&buf, []int16{1, 2, -3, 4}, 44100, 2))

	info, err := denoise.InspectWAV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, denoise.WAVInfo{SampleRate: 44100, Channels: 2, BitDepth: 16}, info)

	// 44 byte header, 4 samples of 2 bytes.
	assert.Equal(t, 44+8, buf.Len())
	assert.Equal(t, []byte{0x01, 0x00, 0x02, 0x00, 0xfd, 0xff, 0x04, 0x00}, buf.Bytes()[44:])
}

func TestWriteWAVInvalid(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, denoise.WriteWAV(&buf, []int16{1}, 0, 1), "zero sample rate")
	assert.Error(t, denoise.WriteWAV(&buf, []int16{1}, 44100, 3), "three channels")
	assert.Error(t, denoise.WriteWAV(&buf, []int16{1, 2, 3}, 44100, 2), "odd samples for stereo")
}

func TestInspectWAVInvalid(t *testing.T) {
	_, err := denoise.InspectWAV(bytes.NewReader([]byte("definitely not audio")))
	assert.Error(t, err)
}
