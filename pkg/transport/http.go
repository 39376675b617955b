// Package transport fetches remote content over HTTP with retries. It is the
// only packsmith package that talks to the network; everything above it works
// against the sync.Fetcher interface.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/identity"
	"github.com/packsmith/packsmith/pkg/logging"
)

// Options tune the HTTP fetcher.
type Options struct {
	// RetryMax bounds retry attempts for transient failures; <0 disables
	// retries, 0 means the default of 3.
	RetryMax int
	// Timeout bounds a single attempt; 0 means 5 minutes, sized for large
	// mod jars on slow connections.
	Timeout time.Duration
	// Credentials supplies the bearer token; nil means unauthenticated.
	Credentials identity.CredentialProvider
	// UserAgent overrides the default packsmith user agent.
	UserAgent string
	// Header is added to every request; API-key style auth goes here.
	Header http.Header
}

// HTTPFetcher implements sync.Fetcher over go-retryablehttp. 5xx responses
// and network errors are retried with backoff; 401/403 and other 4xx
// responses fail immediately since retrying cannot help.
type HTTPFetcher struct {
	client      *retryablehttp.Client
	credentials identity.CredentialProvider
	userAgent   string
	header      http.Header
}

// NewHTTPFetcher creates a fetcher with the given options.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.Logger = retryLogger{logging.GetLogger("transport")}

	switch {
	case opts.RetryMax < 0:
		client.RetryMax = 0
	case opts.RetryMax == 0:
		client.RetryMax = 3
	default:
		client.RetryMax = opts.RetryMax
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	client.HTTPClient.Timeout = timeout

	credentials := opts.Credentials
	if credentials == nil {
		credentials = identity.None
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "packsmith"
	}

	return &HTTPFetcher{
		client:      client,
		credentials: credentials,
		userAgent:   userAgent,
		header:      opts.Header,
	}
}

// Fetch streams the content behind ref into dest. The returned error carries
// the FETCH_TRANSIENT / FETCH_PERMANENT / UNAUTHORIZED classification for
// the caller.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string, dest io.Writer) error {
	resp, err := f.get(ctx, ref)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return errors.Wrapf(err, errors.ErrFetchTransient, "stream %s", ref)
	}
	return nil
}

// Get performs an authenticated GET and returns the open response body. The
// catalog clients use it for JSON endpoints; callers must close the body.
func (f *HTTPFetcher) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	resp, err := f.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// PostJSON sends payload as a JSON body and returns the open response body.
// Callers must close it.
func (f *HTTPFetcher) PostJSON(ctx context.Context, ref string, payload interface{}) (io.ReadCloser, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "encode request body for %s", ref)
	}

	resp, err := f.do(ctx, http.MethodPost, ref, body)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, ref string) (*http.Response, error) {
	return f.do(ctx, http.MethodGet, ref, nil)
}

func (f *HTTPFetcher) do(ctx context.Context, method, ref string, body []byte) (*http.Response, error) {
	var rawBody interface{}
	if body != nil {
		rawBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, ref, rawBody)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFetchPermanent, "bad fetch reference %s", ref)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range f.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	token, err := f.credentials.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Retries exhausted, or the connection never succeeded.
		return nil, errors.Wrapf(err, errors.ErrFetchTransient, "fetch %s", ref)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, classifyStatus(resp.StatusCode, ref)
	}
	return resp, nil
}

// classifyStatus maps a non-200 response onto the error taxonomy.
func classifyStatus(status int, ref string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.Newf(errors.ErrUnauthorized, "fetch %s: %s", ref, http.StatusText(status)).
			WithDetail("status", status)
	case status >= 500:
		return errors.Newf(errors.ErrFetchTransient, "fetch %s: %s", ref, http.StatusText(status)).
			WithDetail("status", status)
	default:
		return errors.Newf(errors.ErrFetchPermanent, "fetch %s: %s", ref, http.StatusText(status)).
			WithDetail("status", status)
	}
}

// retryLogger adapts zerolog to retryablehttp's LeveledLogger.
type retryLogger struct {
	log zerolog.Logger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.emit(l.log.Error(), msg, kv) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.emit(l.log.Warn(), msg, kv) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.emit(l.log.Debug(), msg, kv) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.emit(l.log.Trace(), msg, kv) }

func (l retryLogger) emit(ev *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		ev = ev.Interface(fmt.Sprint(kv[i]), kv[i+1])
	}
	ev.Msg(msg)
}
