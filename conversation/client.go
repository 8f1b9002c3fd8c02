// Package conversation is a client for a conversational-AI REST service. It
// covers workspace, intent, entity, dialog-node and log management plus the
// message exchange endpoint. Every call is a single stateless request and the
// client holds only immutable configuration, so one instance may be shared by
// any number of goroutines.
package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jimwinquist/conversation-go/core"
	xlog "github.com/jimwinquist/conversation-go/internal/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// DefaultVersion is the API version date sent when Options.Version is empty.
const DefaultVersion = "2017-05-26"

const (
	defaultTimeout        = 30 * time.Second
	defaultHeaderTimeout  = 10 * time.Second
	defaultUserAgent      = "conversation-go"
	defaultRateLimit      = rate.Limit(20)
	defaultRateLimitBurst = 40
)

// Options configures the client. Credentials are either basic (username and
// password) or a bearer token; when both are set the bearer token wins.
type Options struct {
	URL                   string
	Version               string
	Username              string
	Password              string
	BearerToken           string
	UserAgent             string
	Timeout               time.Duration
	ResponseHeaderTimeout time.Duration
	RateLimit             rate.Limit
	RateLimitBurst        int
	// HTTPClient overrides the built-in transport; retry, proxying and TLS
	// policy belong to whoever supplies it.
	HTTPClient *http.Client
	// Headers are attached to every request in addition to the standard set.
	Headers http.Header
}

// Client issues calls against one service instance. All fields are set at
// construction and never mutated afterwards.
type Client struct {
	baseURL     string
	version     string
	username    string
	password    string
	bearerToken string
	userAgent   string
	headers     http.Header
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewClient builds a client for the service at opts.URL. Credentials embedded
// in the URL are lifted into basic auth and stripped from the stored base URL.
func NewClient(opts Options) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if trimmed == "" {
		return nil, errors.New("conversation: service URL is required")
	}
	if u, err := url.Parse(trimmed); err == nil {
		if u.User != nil && opts.Username == "" {
			opts.Username = u.User.Username()
			if pass, ok := u.User.Password(); ok {
				opts.Password = pass
			}
		}
		u.User = nil
		trimmed = strings.TrimRight(u.String(), "/")
	}

	nopts := normalizeOptions(opts)

	httpClient := nopts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: nopts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   20,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: nopts.ResponseHeaderTimeout,
				TLSHandshakeTimeout:   5 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:     trimmed,
		version:     nopts.Version,
		username:    nopts.Username,
		password:    nopts.Password,
		bearerToken: nopts.BearerToken,
		userAgent:   nopts.UserAgent,
		headers:     nopts.Headers,
		httpClient:  httpClient,
		limiter:     rate.NewLimiter(nopts.RateLimit, nopts.RateLimitBurst),
	}, nil
}

func normalizeOptions(opts Options) Options {
	if strings.TrimSpace(opts.Version) == "" {
		opts.Version = DefaultVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ResponseHeaderTimeout <= 0 {
		opts.ResponseHeaderTimeout = defaultHeaderTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	return opts
}

// Version returns the API version date sent with every call.
func (c *Client) Version() string { return c.version }

// call describes one logical operation for do.
type call struct {
	operation string
	method    string
	segments  []string
	query     *core.Query
	body      any
	out       any
}

func (c *Client) newQuery() *core.Query {
	return core.NewQuery(c.version)
}

// do builds, issues and dispatches one request. Request-construction failures
// (path encoding, body serialization) abort before any network I/O.
func (c *Client) do(ctx context.Context, cl call) error {
	u, err := core.PathSegments(c.baseURL, cl.segments...)
	if err != nil {
		return fmt.Errorf("%s: %w", cl.operation, err)
	}
	query := cl.query
	if query == nil {
		query = c.newQuery()
	}
	u += "?" + query.Encode()

	var bodyReader io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrSerialization, cl.operation, err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	tracer := otel.Tracer("github.com/jimwinquist/conversation-go")
	ctx, span := tracer.Start(ctx, "conversation."+cl.operation, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("rpc.method", cl.operation),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, cl.method, u, bodyReader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", cl.operation, err)
	}
	c.applyHeaders(req, cl.body != nil)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	logger := xlog.WithComponentFromContext(ctx, "client")
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	core.ObserveRequest(cl.operation, cl.method, status, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().
			Err(err).
			Str(xlog.FieldOperation, cl.operation).
			Str(xlog.FieldMethod, cl.method).
			Msg("transport failure")
		return fmt.Errorf("%w: %s: %v", core.ErrTransport, cl.operation, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(status))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	logger.Debug().
		Str(xlog.FieldOperation, cl.operation).
		Str(xlog.FieldMethod, cl.method).
		Int(xlog.FieldStatus, status).
		Dur("duration", duration).
		Msg("request completed")

	if err := core.Dispatch(resp, cl.operation, cl.out); err != nil {
		var de *core.DecodeError
		if errors.As(err, &de) {
			logger.Error().
				Err(err).
				Str(xlog.FieldOperation, cl.operation).
				Msg("failed to decode response")
		}
		return err
	}
	return nil
}

func (c *Client) applyHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	switch {
	case c.bearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	case c.username != "" || c.password != "":
		req.SetBasicAuth(c.username, c.password)
	}
}
