// Package denoise sends audio to a remote noise reduction service and writes
// the denoised samples back as WAV files.
package denoise

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// DefaultURL is the default endpoint audio is sent to.
var DefaultURL = "https://noise-reduction-service.p.rapidapi.com/denoise"

// DefaultLevel is the denoise level used when none is configured. The service
// applies its own default and range, this is only a client-side convention.
const DefaultLevel = 20

const maxErrorBody = 1024

// Client holds the API key, and allows sending audio for denoising.
type Client struct {
	HTTPClient *http.Client
	URL        string

	apiKey string
}

// NewClient makes a new Client sending to DefaultURL.
// If you need custom HTTP handling, e.g. for proxy settings or a timeout,
// you can override the default HTTPClient.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing api key")
	}
	return &Client{http.DefaultClient, DefaultURL, apiKey}, nil
}

// Denoise uploads the audio read from r as a multipart form file named
// "file", with the denoise level as query parameter denoise_control.
// Denoise returns the raw response body, which the service documents as
// 16-bit PCM samples.
//
// Transport failures are returned as *TransportError, responses with a
// non-2xx status as HTTPError.
func (c *Client) Denoise(ctx context.Context, filename string, r io.Reader, level int) ([]byte, error) {
	log := zerolog.Ctx(ctx)

	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", c.URL, err)
	}
	q := u.Query()
	q.Set("denoise_control", strconv.Itoa(level))
	u.RawQuery = q.Encode()

	// The body is built in memory, the service does not accept chunked uploads.
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &body)
	if err != nil {
		return nil, fmt.Errorf("new HTTP request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	log.Debug().Str("url", u.Redacted()).Int("bytes", body.Len()).Msg("sending audio")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Attempt to read a response message to use in error message, otherwise use http status message.
		msg := resp.Status
		buf, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err == nil && len(buf) > 0 {
			msg = string(buf)
		}
		return nil, HTTPError{resp.StatusCode, msg}
	}

	respBuf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{fmt.Errorf("reading response body: %w", err)}
	}
	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(respBuf)).Msg("received audio")
	return respBuf, nil
}
