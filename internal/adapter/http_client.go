package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/fableforge/fable-sync/internal/config"
	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpRemoteAPI struct {
	client *resty.Client
	log    *logger.Logger
}

// NewHTTPRemoteAPI builds the resty-backed RemoteAPI client. Every request
// inherits the configured bounded timeout; a timeout surfaces as ErrTimeout
// and is handled exactly like a network failure.
func NewHTTPRemoteAPI(cfg config.SyncAdapter, log *logger.Logger) (RemoteAPI, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote api base url is required")
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &httpRemoteAPI{client: cli, log: log}, nil
}

func (h *httpRemoteAPI) Upsert(ctx context.Context, req models.UpsertRequest) (models.UpsertResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Put(fmt.Sprintf("/api/entities/%s/%s", req.EntityType, req.EntityID))
	if err != nil {
		return models.UpsertResponse{}, classifyTransportError(err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UpsertResponse{}, err
	}

	var ack models.UpsertResponse
	if err = json.Unmarshal(resp.Body(), &ack); err != nil {
		return models.UpsertResponse{}, fmt.Errorf("decode upsert response: %w", err)
	}
	return ack, nil
}

func (h *httpRemoteAPI) Delete(ctx context.Context, req models.DeleteRequest) (models.UpsertResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Delete(fmt.Sprintf("/api/entities/%s/%s", req.EntityType, req.EntityID))
	if err != nil {
		return models.UpsertResponse{}, classifyTransportError(err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UpsertResponse{}, err
	}

	var ack models.UpsertResponse
	if len(resp.Body()) > 0 {
		if err = json.Unmarshal(resp.Body(), &ack); err != nil {
			return models.UpsertResponse{}, fmt.Errorf("decode delete response: %w", err)
		}
	}
	return ack, nil
}

// classifyTransportError wraps a transport failure into the taxonomy.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// mapHTTPError translates a non-2xx response into the failure taxonomy.
// A 409 decodes the server's current record into a *ConflictError; the
// push is never silently turned into an overwrite.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch {
	case code == http.StatusConflict:
		var remote models.RemoteRecord
		if err := json.Unmarshal(resp.Body(), &remote); err != nil {
			return fmt.Errorf("decode conflict response: %w", err)
		}
		return &ConflictError{Remote: remote}

	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d: %s", ErrServer, code, body)

	case code >= http.StatusBadRequest:
		return fmt.Errorf("%w: status %d: %s", ErrValidation, code, body)

	default:
		return fmt.Errorf("unexpected status %d: %s", code, body)
	}
}
