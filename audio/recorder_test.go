package audio

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readerRecorder struct {
	r      io.Reader
	closed bool
}

func (r *readerRecorder) Reader() io.Reader { return r.r }
func (r *readerRecorder) Close() error {
	r.closed = true
	return nil
}

func TestRecord(t *testing.T) {
	// 10ms at 800Hz is 8 samples, the rest is not read.
	src := make([]byte, 64)
	for i := 0; i < len(src); i += 2 {
		src[i] = byte(i / 2)
	}
	rec := &readerRecorder{r: bytes.NewReader(src)}

	var buf bytes.Buffer
	require.NoError(t, Record(context.Background(), rec, &buf, 10*time.Millisecond, 800))
	assert.False(t, rec.closed)

	d := gowav.NewDecoder(bytes.NewReader(buf.Bytes()))
	pcm, err := d.FullPCMBuffer()
	require.NoError(t, err)
	assert.EqualValues(t, 800, d.SampleRate)
	assert.EqualValues(t, 1, d.NumChans)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, pcm.Data)
}

func TestRecordShortRead(t *testing.T) {
	rec := &readerRecorder{r: bytes.NewReader([]byte{1, 0, 2})}
	var buf bytes.Buffer
	err := Record(context.Background(), rec, &buf, time.Second, 16000)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRecordCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rec := &readerRecorder{r: pr}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := Record(ctx, rec, &buf, time.Second, 16000)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, rec.closed)
	assert.Zero(t, buf.Len())
}

func TestRecordInvalid(t *testing.T) {
	rec := &readerRecorder{r: bytes.NewReader(nil)}
	var buf bytes.Buffer
	assert.Error(t, Record(context.Background(), rec, &buf, 0, 16000))
	assert.Error(t, Record(context.Background(), rec, &buf, time.Second, 0))
}
