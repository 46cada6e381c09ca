package denoise

import (
	"bytes"
	"encoding/binary"
	"fmt"

	gowav "github.com/go-audio/wav"
)

// ResponseFormat describes how a response body is interpreted.
type ResponseFormat string

const (
	// ResponseFormatRaw treats the body as headerless little-endian
	// 16-bit PCM.
	ResponseFormatRaw ResponseFormat = "raw"

	// ResponseFormatWAV treats the body as a WAV container holding 16-bit
	// PCM.
	ResponseFormatWAV ResponseFormat = "wav"

	// ResponseFormatAuto uses ResponseFormatWAV if the body starts with a
	// RIFF/WAVE header, and ResponseFormatRaw otherwise.
	ResponseFormatAuto ResponseFormat = "auto"
)

// ParseResponseFormat parses s, an empty string results in ResponseFormatRaw.
func ParseResponseFormat(s string) (ResponseFormat, error) {
	switch f := ResponseFormat(s); f {
	case "":
		return ResponseFormatRaw, nil
	case ResponseFormatRaw, ResponseFormatWAV, ResponseFormatAuto:
		return f, nil
	}
	return "", fmt.Errorf("unknown response format %q, need one of: raw, wav, auto", s)
}

// DecodePCM16 reinterprets b as little-endian signed 16-bit samples.
// A buffer with an odd number of bytes results in a *DecodeError, the final
// byte is never silently dropped.
func DecodePCM16(b []byte) ([]int16, error) {
	if len(b)%2 != 0 {
		return nil, &DecodeError{fmt.Sprintf("odd byte count %d, not a sequence of 16-bit samples", len(b))}
	}
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return samples, nil
}

// EncodePCM16 returns samples as little-endian bytes, the inverse of
// DecodePCM16.
func EncodePCM16(samples []int16) []byte {
	b := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b
}

// isWAV reports whether b starts with a RIFF header of type WAVE.
func isWAV(b []byte) bool {
	return len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE"))
}

// DecodeResponse turns a response body into samples according to format.
// For WAV bodies the audio must be 16-bit with the given channel count.
func DecodeResponse(b []byte, format ResponseFormat, channels int) ([]int16, error) {
	if len(b) == 0 {
		return nil, &DecodeError{"empty response body"}
	}
	if format == ResponseFormatAuto {
		format = ResponseFormatRaw
		if isWAV(b) {
			format = ResponseFormatWAV
		}
	}
	switch format {
	case ResponseFormatRaw, "":
		return DecodePCM16(b)
	case ResponseFormatWAV:
		return decodeWAVBody(b, channels)
	}
	return nil, fmt.Errorf("unknown response format %q", format)
}

func decodeWAVBody(b []byte, channels int) ([]int16, error) {
	d := gowav.NewDecoder(bytes.NewReader(b))
	if !d.IsValidFile() {
		return nil, &DecodeError{"response is not a valid WAV file"}
	}
	if d.BitDepth != 16 {
		return nil, &DecodeError{fmt.Sprintf("response has bit depth %d, expected 16", d.BitDepth)}
	}
	if int(d.NumChans) != channels {
		return nil, &DecodeError{fmt.Sprintf("response has %d channels, expected %d", d.NumChans, channels)}
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, &DecodeError{fmt.Sprintf("reading WAV samples: %v", err)}
	}
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}
	return samples, nil
}
