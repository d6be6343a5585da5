package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/common"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
	"github.com/google/uuid"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 1 << 20

var ErrInvalidEndpoint = errors.New("invalid endpoint url")

// HTTPConfig holds the endpoints of the account service.
type HTTPConfig struct {
	// EndpointURL receives login and register requests.
	EndpointURL string
	// AvatarURL receives avatar uploads.
	AvatarURL string
	// Timeout bounds a single request; zero means no limit.
	Timeout time.Duration
}

// HTTPClient implements Client over JSON/HTTP. Login and register share one
// endpoint and are told apart by the "action" field of the body.
type HTTPClient struct {
	cfg        HTTPConfig
	httpClient *http.Client
	logger     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates the endpoint URLs and builds a client. If
// httpClient is nil a new one with cfg.Timeout is used.
func NewHTTPClient(cfg HTTPConfig, httpClient *http.Client, logger logging.Logger) (*HTTPClient, error) {
	for _, raw := range []string{cfg.EndpointURL, cfg.AvatarURL} {
		u, err := url.ParseRequestURI(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidEndpoint, raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidEndpoint, raw)
		}
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &HTTPClient{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.With("component", "http_client"),
	}, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password, fullName string) error {
	_, err := c.post(ctx, c.cfg.EndpointURL, string(models.ActionRegister), models.AuthRequest{
		Action:   models.ActionRegister,
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	return err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := c.post(ctx, c.cfg.EndpointURL, string(models.ActionLogin), models.AuthRequest{
		Action:   models.ActionLogin,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if err := resp.User.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return resp.User, nil
}

// UploadAvatar sends image base64-encoded and returns the updated record.
func (c *HTTPClient) UploadAvatar(ctx context.Context, userID int64, image []byte) (*models.User, error) {
	resp, err := c.post(ctx, c.cfg.AvatarURL, "upload_avatar", models.AvatarRequest{
		UserID:     userID,
		AvatarData: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}
	if err := resp.User.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return resp.User, nil
}

// Ping sends OPTIONS to the account endpoint. Any response below 500
// counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.cfg.EndpointURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Close drops idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint, action string, body any) (*models.AuthResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	log := c.logger.With("action", action, "request_id", requestID)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(started))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	var ar models.AuthResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		return nil, fmt.Errorf("%w: status %d: %w", ErrBadResponse, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !ar.Success {
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: ar.Error}
	}

	return &ar, nil
}
