package denoise_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	denoise "github.com/noisereduction/denoise-go"
)

func TestDecodePCM16(t *testing.T) {
	buf := []byte{0x01, 0x00, 0x02, 0x00, 0xff, 0xff, 0x00, 0x80, 0xff, 0x7f}
	samples, err := denoise.DecodePCM16(buf)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2, -1, -32768, 32767}, samples)
	assert.Len(t, samples, len(buf)/2)

	assert.Equal(t, buf, denoise.EncodePCM16(samples))
}

func TestPCM16RoundTrip(t *testing.T) {
	buf := make([]byte, 4096)
	for i := range buf {
		buf[i] = byte(i * 7)
	}
	samples, err := denoise.DecodePCM16(buf)
	require.NoError(t, err)
	require.Len(t, samples, 2048)
	assert.True(t, bytes.Equal(buf, denoise.EncodePCM16(samples)), "re-encoded bytes differ")

	samples, err = denoise.DecodePCM16(nil)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestDecodePCM16OddLength(t *testing.T) {
	for _, n := range []int{1, 3, 4097} {
		_, err := denoise.DecodePCM16(make([]byte, n))
		var derr *denoise.DecodeError
		require.Truef(t, errors.As(err, &derr), "expected decode error for %d bytes, got %v", n, err)
	}
}

func TestParseResponseFormat(t *testing.T) {
	f, err := denoise.ParseResponseFormat("")
	require.NoError(t, err)
	assert.Equal(t, denoise.ResponseFormatRaw, f)

	f, err = denoise.ParseResponseFormat("auto")
	require.NoError(t, err)
	assert.Equal(t, denoise.ResponseFormatAuto, f)

	_, err = denoise.ParseResponseFormat("mp3")
	assert.Error(t, err)
}

func TestDecodeResponse(t *testing.T) {
	_, err := denoise.DecodeResponse(nil, denoise.ResponseFormatRaw, 1)
	var derr *denoise.DecodeError
	require.ErrorAs(t, err, &derr)

	samples, err := denoise.DecodeResponse([]byte{0x01, 0x00, 0x02, 0x00}, denoise.ResponseFormatAuto, 1)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2}, samples)

	var wavBuf bytes.Buffer
	require.NoError(t, denoise.WriteWAV(&wavBuf, []int16{5, -6, 7}, 16000, 1))

	samples, err = denoise.DecodeResponse(wavBuf.Bytes(), denoise.ResponseFormatWAV, 1)
	require.NoError(t, err)
	assert.Equal(t, []int16{5, -6, 7}, samples)

	samples, err = denoise.DecodeResponse(wavBuf.Bytes(), denoise.ResponseFormatAuto, 1)
	require.NoError(t, err)
	assert.Equal(t, []int16{5, -6, 7}, samples)

	_, err = denoise.DecodeResponse(wavBuf.Bytes(), denoise.ResponseFormatWAV, 2)
	require.ErrorAs(t, err, &derr)

	_, err = denoise.DecodeResponse([]byte(`{"message":"nope"}`), denoise.ResponseFormatWAV, 1)
	require.ErrorAs(t, err, &derr)
}
