// Package audiocmd implements recording audio samples by executing sox or
// arecord.
package audiocmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noisereduction/denoise-go/audio"
)

var errSoxInstallHint = errors.New("sox executable not found, install with: sudo apt install -y sox")

// RecorderOpts holds option for a Recorder.
type RecorderOpts struct {
	SampleRate    int
	RecordProgram string // "sox" or "arecord"
	DeviceID      string // Empty for the default microphone.
}

// recorderOptsDefault has default option values for a Recorder.
var recorderOptsDefault = RecorderOpts{
	SampleRate:    44100,
	RecordProgram: "sox",
}

// Recorder reads raw mono 16-bit little-endian samples from a recording
// command.
type Recorder struct {
	audio  io.ReadCloser
	cmd    *exec.Cmd
	cancel context.CancelFunc
}

// Ensure that Recorder implements the Recorder interface.
var _ audio.Recorder = (*Recorder)(nil)

// ListDevices returns audio recording devices available on the system.
func ListDevices() ([]audio.Device, error) {
	var r []audio.Device

	f, err := os.Open("/proc/asound/cards")
	if err == nil {
		defer f.Close()
		r, err = parseAsoundCards(f)
		if err != nil {
			return nil, err
		}
	} else if runtime.GOOS == "darwin" {
		cmd := exec.Command("sox", "-V6", "-n", "-t", "coreaudio", "doesnotexist")
		// The command is meant to fail, we only need its output listing the devices.
		output, err := cmd.CombinedOutput()
		if err != nil && errors.Is(err, exec.ErrNotFound) {
			return nil, errSoxInstallHint
		}
		r = parseSoxDevices(string(output))
	}
	if len(r) == 0 {
		r = []audio.Device{{ID: "", Name: "Default microphone"}}
	}
	return r, nil
}

var asoundRegexp = regexp.MustCompile(`^[ \t]*([0-9]*) [^\]]*\]: (.*)$`)

func parseAsoundCards(f io.Reader) ([]audio.Device, error) {
	var r []audio.Device

	b := bufio.NewScanner(f)
	for b.Scan() {
		m := asoundRegexp.FindStringSubmatch(b.Text())
		if m != nil {
			r = append(r, audio.Device{
				ID:   fmt.Sprintf("hw:%s,0", m[1]),
				Name: m[2],
			})
		}
	}
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("parsing list of sound cards: %v", err)
	}
	return r, nil
}

var soxRegexp = regexp.MustCompile(`^sox INFO coreaudio: Found Audio Device "(.*)"$`)

func parseSoxDevices(s string) []audio.Device {
	var r []audio.Device
	seen := map[string]struct{}{}

	for _, line := range strings.Split(s, "\n") {
		m := soxRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id := m[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		r = append(r, audio.Device{ID: id, Name: id})
	}
	return r
}

// recordArgs returns the command line arguments for recording raw audio.
func recordArgs(opts RecorderOpts, goos string) ([]string, error) {
	switch opts.RecordProgram {
	case "sox":
		args := []string{"-d"}
		if opts.DeviceID != "" {
			switch goos {
			case "linux":
				args = []string{"-t", "alsa", opts.DeviceID}
			case "darwin":
				args = []string{"-t", "coreaudio", opts.DeviceID}
			default:
				return nil, fmt.Errorf("cannot set device on %s", goos)
			}
		}
		return append(args,
			"-q", // show no progress
			"-r", fmt.Sprintf("%d", opts.SampleRate),
			"-c", "1", // channels
			"-e", "signed-integer", // sample encoding
			"-b", "16", // precision (bits)
			"-L", // little endian
			"-t", "raw",
			"-",
		), nil
	case "arecord":
		args := []string{
			"-q", // show no progress
			"-r", fmt.Sprintf("%d", opts.SampleRate),
			"-c", "1",
			"-t", "raw",
			"-f", "S16_LE",
			"-", // pipe
		}
		if opts.DeviceID != "" {
			args = append([]string{"-D", opts.DeviceID}, args...)
		}
		return args, nil
	}
	return nil, fmt.Errorf("unknown RecordProgram %q", opts.RecordProgram)
}

// NewRecorder starts a new command that records audio samples. The command is
// stopped when ctx is done or Close is called.
//
// Opts and its fields can be nil or zero, in which case default values are
// used.
func NewRecorder(ctx context.Context, opts *RecorderOpts) (recorder *Recorder, rerr error) {
	var xopts RecorderOpts
	if opts != nil {
		xopts = *opts
	}
	if xopts.SampleRate == 0 {
		xopts.SampleRate = recorderOptsDefault.SampleRate
	}
	if xopts.RecordProgram == "" {
		xopts.RecordProgram = recorderOptsDefault.RecordProgram
	}

	args, err := recordArgs(xopts, runtime.GOOS)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &Recorder{cancel: cancel}

	// Ensure cleanup on failure.
	defer func() {
		if rerr != nil {
			r.Close()
		}
	}()

	r.cmd = exec.CommandContext(ctx, xopts.RecordProgram, args...)
	r.audio, err = r.cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %v", err)
	}

	zerolog.Ctx(ctx).Debug().Str("command", strings.Join(append([]string{xopts.RecordProgram}, args...), " ")).Msg("starting recorder")

	if err := r.cmd.Start(); err != nil {
		if xopts.RecordProgram == "sox" && errors.Is(err, exec.ErrNotFound) {
			return nil, errSoxInstallHint
		}
		return nil, fmt.Errorf("starting recorder: %v", err)
	}
	return r, nil
}

// Reader returns a source from which audio samples can be read.
func (r *Recorder) Reader() io.Reader {
	return r.audio
}

// Close stops the command recording audio, and prevents further successful reads on the audio source.
func (r *Recorder) Close() error {
	r.cancel()
	if r.cmd != nil && r.cmd.Process != nil {
		// The command is killed, its exit status is not of interest.
		r.cmd.Wait()
		r.cmd = nil
	}
	return nil
}
