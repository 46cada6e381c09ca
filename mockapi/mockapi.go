// Package mockapi is a local stand-in for the noise reduction service. It
// accepts the same requests and answers with the uploaded audio as raw
// 16-bit PCM, without changing the samples.
package mockapi

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gowav "github.com/go-audio/wav"
	"github.com/rs/zerolog"

	denoise "github.com/noisereduction/denoise-go"
)

// maxUpload bounds the size of accepted audio files.
const maxUpload = 64 << 20

type denoiseRoutes struct {
	apiKey string
	l      zerolog.Logger
}

// NewRouter returns a handler serving POST /denoise. Requests must carry
// apiKey in header x-rapidapi-key.
func NewRouter(apiKey string, l zerolog.Logger) *gin.Engine {
	handler := gin.New()
	handler.Use(gin.Recovery())
	handler.MaxMultipartMemory = maxUpload

	r := &denoiseRoutes{apiKey, l}
	handler.POST("/denoise", r.denoise)
	return handler
}

func errorResponse(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"message": msg})
}

func (r *denoiseRoutes) denoise(c *gin.Context) {
	if c.GetHeader("x-rapidapi-key") != r.apiKey {
		errorResponse(c, http.StatusUnauthorized, "Invalid API key.")
		return
	}

	level := denoise.DefaultLevel
	if s, ok := c.GetQuery("denoise_control"); ok {
		v, err := strconv.Atoi(s)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "denoise_control must be an integer")
			return
		}
		level = v
	}

	fh, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "missing form file \"file\"")
		return
	}
	f, err := fh.Open()
	if err != nil {
		r.l.Error().Err(err).Msg("mockapi - denoise - open upload")
		errorResponse(c, http.StatusInternalServerError, "cannot read upload")
		return
	}
	defer f.Close()
	buf, err := io.ReadAll(f)
	if err != nil {
		r.l.Error().Err(err).Msg("mockapi - denoise - read upload")
		errorResponse(c, http.StatusInternalServerError, "cannot read upload")
		return
	}

	body, err := pcmOf(buf)
	if err != nil {
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	r.l.Info().Str("file", fh.Filename).Int("level", level).Int("bytes", len(body)).Msg("denoise")
	c.Data(http.StatusOK, "application/octet-stream", body)
}

// pcmOf returns the samples of a 16-bit WAV file as raw little-endian PCM.
// Other uploads are returned unchanged.
func pcmOf(buf []byte) ([]byte, error) {
	d := gowav.NewDecoder(bytes.NewReader(buf))
	if !d.IsValidFile() || d.BitDepth != 16 {
		return buf, nil
	}
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	samples := make([]int16, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = int16(v)
	}
	return denoise.EncodePCM16(samples), nil
}
