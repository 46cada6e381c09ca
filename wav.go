package denoise

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/youpy/go-wav"
)

// WAVInfo holds the format of a WAV file.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// String returns a human-readable summary of the format.
func (i WAVInfo) String() string {
	return fmt.Sprintf("%dHz, %d channels, %d bit", i.SampleRate, i.Channels, i.BitDepth)
}

// InspectWAV reads the header of a WAV file. It does not read or validate
// the samples.
func InspectWAV(r io.ReadSeeker) (WAVInfo, error) {
	d := gowav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return WAVInfo{}, fmt.Errorf("reading wav header: %w", err)
		}
		return WAVInfo{}, fmt.Errorf("not a valid wav file")
	}
	return WAVInfo{int(d.SampleRate), int(d.NumChans), int(d.BitDepth)}, nil
}

// WriteWAV writes samples as a 16-bit PCM WAV file. With 2 channels, samples
// are interleaved left/right.
func WriteWAV(w io.Writer, samples []int16, sampleRate, channels int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if channels != 1 && channels != 2 {
		return fmt.Errorf("invalid channel count %d, need 1 or 2", channels)
	}
	if len(samples)%channels != 0 {
		return &DecodeError{fmt.Sprintf("%d samples cannot be split into %d channels", len(samples), channels)}
	}

	frames := make([]wav.Sample, len(samples)/channels)
	for i := range frames {
		for ch := 0; ch < channels; ch++ {
			frames[i].Values[ch] = int(samples[i*channels+ch])
		}
	}
	if err := wav.NewWriter(w, uint32(len(frames)), uint16(channels), uint32(sampleRate), 16).WriteSamples(frames); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	return nil
}
