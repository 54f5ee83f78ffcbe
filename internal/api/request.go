package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/ladderweb/internal/errors"
	"github.com/diogo/ladderweb/internal/models"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 16 << 20

// getJSON issues a GET and returns the parsed body
func (c *LadderClient) getJSON(ctx context.Context, path string) (gjson.Result, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil)
}

// postJSON issues a POST with payload encoded as JSON
func (c *LadderClient) postJSON(ctx context.Context, path string, payload interface{}) (gjson.Result, error) {
	return c.doJSON(ctx, http.MethodPost, path, payload)
}

// doJSON performs one request. A non-2xx response whose body is JSON is
// returned as a result so the caller can inspect success/error; a non-2xx
// response without a JSON body is an APIError.
func (c *LadderClient) doJSON(ctx context.Context, method, path string, payload interface{}) (gjson.Result, error) {
	if c.IsClosed() {
		return gjson.Result{}, fmt.Errorf("client is closed")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else if method == http.MethodPost {
		body = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.Headers() {
		req.Header.Set(key, value)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = classifyTransportError(ctx, path, err)
		log.WithError(err).Debug("request failed")
		return gjson.Result{}, err
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		err = classifyTransportError(ctx, path, err)
		log.WithError(err).Debug("reading response failed")
		return gjson.Result{}, err
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"bytes":    len(raw),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("request completed")

	if !gjson.ValidBytes(raw) {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return gjson.Result{}, apierrors.NewAPIErrorWithBody(resp.StatusCode, path, http.StatusText(resp.StatusCode), string(raw))
		}
		return gjson.Result{}, apierrors.NewParseError("response is not valid JSON", path)
	}

	return gjson.ParseBytes(raw), nil
}

// classifyTransportError maps a Do/Read failure to the error taxonomy.
// The context is checked first because cancelled requests surface as
// arbitrary transport errors.
func classifyTransportError(ctx context.Context, path string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%s: %w", path, apierrors.ErrCancelled)
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return apierrors.NewTimeoutError(path)
	default:
		return apierrors.NewNetworkErrorWithEndpoint("request", path, err)
	}
}

// requireSuccess turns success:false (or a missing flag) into a structural failure
func requireSuccess(res gjson.Result, path string) error {
	if res.Get("success").Bool() {
		return nil
	}
	return apierrors.NewUnavailableError(path, failureReason(res))
}

// failureReason picks the most useful text from a failed response
func failureReason(res gjson.Result) string {
	if e := res.Get("error").String(); e != "" {
		return e
	}
	return "Unknown error"
}
