package cardapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/cardapp/internal/platform/timeouts"
)

const (
	tracerName = "github.com/louisbranch/cardapp/internal/services/admin/cardapi"
	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

// Backend issues REST calls against the card application backend.
type Backend struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     log.FieldLogger
	tracer     trace.Tracer
}

// Option customizes a Backend.
type Option func(*Backend)

// WithTimeout overrides the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(b *Backend) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Backend) {
		if client != nil {
			b.httpClient = client
		}
	}
}

// WithLogger sets the logger used for failure reports.
func WithLogger(logger log.FieldLogger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New builds a Backend rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, opts ...Option) (*Backend, error) {
	baseURL = strings.TrimSpace(baseURL)
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}
	b := &Backend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeouts.BackendRequest,
		logger:     log.StandardLogger(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

// BaseURL returns the root all request paths are joined to.
func (b *Backend) BaseURL() string {
	return b.baseURL
}

// CreateClient registers a new applicant.
func (b *Backend) CreateClient(ctx context.Context, input NewClient) (Client, error) {
	if err := ValidateIdentifier(input.Identifier); err != nil {
		return Client{}, err
	}
	var created Client
	err := b.do(ctx, "CreateClient", http.MethodPost, "/clients", nil, input, &created)
	return created, err
}

// ListClients fetches one sorted page of clients.
func (b *Backend) ListClients(ctx context.Context, query ListQuery) (Page, error) {
	defaults := DefaultListQuery()
	if query.Page < 0 {
		query.Page = defaults.Page
	}
	if query.Size <= 0 {
		query.Size = defaults.Size
	}
	if query.SortBy == "" {
		query.SortBy = defaults.SortBy
	}
	if query.Direction == "" {
		query.Direction = defaults.Direction
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(query.Page))
	values.Set("size", strconv.Itoa(query.Size))
	values.Set("sortBy", string(query.SortBy))
	values.Set("direction", string(query.Direction))

	var page Page
	err := b.do(ctx, "ListClients", http.MethodGet, "/clients", values, nil, &page)
	return page, err
}

// GetClient looks up a client by OIB.
func (b *Backend) GetClient(ctx context.Context, identifier string) (Client, error) {
	if err := ValidateIdentifier(identifier); err != nil {
		return Client{}, err
	}
	var client Client
	err := b.do(ctx, "GetClient", http.MethodGet, "/clients/"+url.PathEscape(identifier), nil, nil, &client)
	return client, err
}

// DeleteClient removes a client by OIB.
func (b *Backend) DeleteClient(ctx context.Context, identifier string) error {
	if err := ValidateIdentifier(identifier); err != nil {
		return err
	}
	return b.do(ctx, "DeleteClient", http.MethodDelete, "/clients/"+url.PathEscape(identifier), nil, nil, nil)
}

// UpdateStatus changes the card status of a client.
func (b *Backend) UpdateStatus(ctx context.Context, identifier string, status CardStatus) (Client, error) {
	if err := ValidateIdentifier(identifier); err != nil {
		return Client{}, err
	}
	var updated Client
	path := "/clients/" + url.PathEscape(identifier) + "/status"
	err := b.do(ctx, "UpdateStatus", http.MethodPatch, path, nil, statusUpdate{Status: status}, &updated)
	return updated, err
}

// CreateCardRequest forwards a card request to the backend.
func (b *Backend) CreateCardRequest(ctx context.Context, request CardRequest) error {
	return b.do(ctx, "CreateCardRequest", http.MethodPost, "/card-requests", nil, request, nil)
}

// Ping checks that the backend answers a minimal listing.
func (b *Backend) Ping(ctx context.Context) error {
	values := url.Values{}
	values.Set("page", "0")
	values.Set("size", "1")
	return b.do(ctx, "Ping", http.MethodGet, "/clients", values, nil, nil)
}

func (b *Backend) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := b.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := b.tracer.Start(ctx, "cardapi."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
		),
	)
	defer span.End()

	status := 0
	defer func() {
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
		b.logger.WithFields(log.Fields{
			"method": method,
			"url":    target,
			"status": status,
			"kind":   KindOf(err).String(),
		}).WithError(err).Warn("backend request failed")
	}()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		encoded, encodeErr := json.Marshal(body)
		if encodeErr != nil {
			return &Error{Kind: KindUnknown, Method: method, URL: target, Cause: fmt.Errorf("encode request: %w", encodeErr)}
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return &Error{Kind: KindUnknown, Method: method, URL: target, Cause: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: transportKind(ctx, err), Method: method, URL: target, Cause: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if status >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var parsed errorBody
		if len(bytes.TrimSpace(raw)) > 0 {
			_ = json.Unmarshal(raw, &parsed)
		}
		return &Error{Kind: classifyStatus(status), Status: status, Method: method, URL: target, Message: parsed.text()}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: transportKind(ctx, err), Status: status, Method: method, URL: target, Cause: fmt.Errorf("read response: %w", err)}
	}
	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindUnknown, Status: status, Method: method, URL: target, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func transportKind(ctx context.Context, err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
