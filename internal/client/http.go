package client

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"wallet_dashboard/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// statusToError maps a provider HTTP status to the shared error taxonomy so
// the resilience layer can decide what is worth retrying.
func statusToError(statusCode int, url string, body []byte) error {
	switch {
	case statusCode == fasthttp.StatusTooManyRequests:
		return fmt.Errorf("request to %s: %w", url, entity.ErrRateLimited)
	case statusCode >= 500:
		return &entity.TransientError{Err: fmt.Errorf("request to %s failed with status %d", url, statusCode)}
	default:
		return fmt.Errorf("request to %s failed with status %d: %s", url, statusCode, body)
	}
}

// doJSON executes one HTTP exchange under the context deadline (falling back
// to timeout when none is set) and decodes the JSON response body into out.
// Transport failures come back as transient errors; a body that does not
// decode is a ParseError.
func doJSON(ctx context.Context, hc *fasthttp.Client, method, url string, body []byte, timeout time.Duration, out any) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = hc.DoDeadline(req, resp, deadline)
	} else {
		err = hc.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		return &entity.TransientError{Err: fmt.Errorf("failed to execute request to %s: %w", url, err)}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		return statusToError(resp.StatusCode(), url, rawBody)
	}

	if out != nil {
		if err := json.Unmarshal(rawBody, out); err != nil {
			return &entity.ParseError{Record: url, Err: err}
		}
	}
	return nil
}
