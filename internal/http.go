package internal

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

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	pkgerrs "github.com/ttraw/go-tiktok-api-wrapper/pkg/errors"
	"github.com/ttraw/go-tiktok-api-wrapper/pkg/types"
)

// maxErrorBodyLen caps how much of a response body is copied into an error
// value. Full bodies can be megabytes of HTML from intermediate proxies.
const maxErrorBodyLen = 512

// maxDateRange is the widest start_date..end_date window the video search
// endpoint accepts.
const maxDateRange = 30 * 24 * time.Hour

// TokenProvider hands out a currently-valid bearer token, refreshing it
// first when necessary. The Authenticator implements this interface.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Client manages communication with the Research API. It attaches bearer
// tokens, validates request payloads before send and classifies every
// response into exactly one outcome: a typed value or a typed error.
type Client struct {
	client   *http.Client
	BaseURL  *url.URL
	auth     TokenProvider
	logger   *log.Logger
	validate *validator.Validate
}

// NewClient returns a new API client. If a nil httpClient is provided,
// http.DefaultClient will be used.
func NewClient(httpClient *http.Client, auth TokenProvider, baseURL string, logger *log.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.TransportError{Err: fmt.Errorf("failed to parse base URL: %w", err)}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateVideoSearchRequest, types.VideoSearchRequest{})

	return &Client{
		client:   httpClient,
		BaseURL:  parsedURL,
		auth:     auth,
		logger:   logger,
		validate: v,
	}, nil
}

// validateVideoSearchRequest adds the cross-field rules that tag-based
// validation cannot express: the query tree must have at least one
// non-empty condition list, and the date window must be ordered and at most
// 30 days wide.
func validateVideoSearchRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(types.VideoSearchRequest)

	if req.Query.Empty() {
		sl.ReportError(req.Query, "Query", "query", "nonempty_query", "")
	}

	start, errStart := time.Parse("20060102", req.StartDate)
	end, errEnd := time.Parse("20060102", req.EndDate)
	if errStart != nil || errEnd != nil {
		// The len/number tags on the fields already report malformed dates.
		return
	}
	if end.Before(start) {
		sl.ReportError(req.EndDate, "EndDate", "end_date", "date_order", "")
	} else if end.Sub(start) > maxDateRange {
		sl.ReportError(req.EndDate, "EndDate", "end_date", "max_date_range", "")
	}
}

// validateRequest runs struct validation on the request payload and
// translates the first violation into a ValidationError carrying the
// failing field.
func (c *Client) validateRequest(body any) error {
	err := c.validate.Struct(body)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &pkgerrs.ValidationError{Message: "request validation failed", Err: err}
	}

	fe := verrs[0]
	return &pkgerrs.ValidationError{
		Field:   fe.Field(),
		Message: violationMessage(fe),
		Err:     err,
	}
}

// violationMessage renders a FieldError as a human-readable message.
func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "nonempty_query":
		return "query must contain at least one non-empty and, or or not condition list"
	case "date_order":
		return "end_date must not be before start_date"
	case "max_date_range":
		return "end_date must be no more than 30 days after start_date"
	case "required":
		return "field is required"
	default:
		return fmt.Sprintf("failed %q validation (value %v)", fe.Tag(), fe.Value())
	}
}

// envelope is the outer shape of every Research API response. Data is kept
// raw so the expected schema can be tried first and the error object used
// as a fallback.
type envelope struct {
	Data  json.RawMessage      `json:"data"`
	Error *types.ResponseError `json:"error"`
}

// Execute sends a POST request to path and classifies the outcome. The
// response's data object is decoded into T. fields, when non-empty, is
// joined into the "fields" query parameter.
//
// Classification:
//   - request payload fails validation: ValidationError, nothing is sent
//   - network-level failure: TransportError, never retried here
//   - body decodes as the expected schema: success, regardless of HTTP
//     status (the API occasionally returns usable payloads on 5xx)
//   - body carries an error envelope: APIError with its code/message/log id
//   - anything else: TransportError with the status and raw body
func Execute[T any](ctx context.Context, c *Client, path string, fields []string, body any) (*T, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	if body != nil {
		if err := c.validateRequest(body); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &pkgerrs.ValidationError{Message: "failed to encode request body", Err: err}
	}

	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, &pkgerrs.TransportError{Err: fmt.Errorf("failed to resolve endpoint path: %w", err)}
	}
	if len(fields) > 0 {
		q := u.Query()
		q.Set("fields", strings.Join(fields, ","))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, &pkgerrs.TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("response received", "path", path, "status", resp.StatusCode, "bytes", len(raw))

	return classify[T](resp.StatusCode, raw)
}

// classify implements the two-phase parse. The expected schema is tried
// before the HTTP status is consulted because the upstream API does not
// reliably signal failure via status code alone.
func classify[T any](statusCode int, raw []byte) (*T, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &pkgerrs.TransportError{
			StatusCode: statusCode,
			Body:       truncateBody(raw),
			Err:        fmt.Errorf("response is not a valid envelope: %w", err),
		}
	}

	if env.Error != nil && env.Error.Code != "" && env.Error.Code != "ok" {
		return nil, &pkgerrs.APIError{
			StatusCode: statusCode,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
			LogID:      env.Error.LogID,
		}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		if env.Error != nil && env.Error.Message != "" {
			return nil, &pkgerrs.APIError{
				StatusCode: statusCode,
				Message:    env.Error.Message,
				LogID:      env.Error.LogID,
			}
		}
		return nil, &pkgerrs.TransportError{
			StatusCode: statusCode,
			Body:       truncateBody(raw),
			Err:        fmt.Errorf("response carries neither data nor a usable error envelope"),
		}
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		if env.Error != nil && env.Error.Message != "" {
			return nil, &pkgerrs.APIError{
				StatusCode: statusCode,
				Message:    env.Error.Message,
				LogID:      env.Error.LogID,
			}
		}
		return nil, &pkgerrs.TransportError{
			StatusCode: statusCode,
			Body:       truncateBody(raw),
			Err:        fmt.Errorf("data does not match the expected schema: %w", err),
		}
	}

	return &out, nil
}

func truncateBody(raw []byte) string {
	if len(raw) > maxErrorBodyLen {
		return string(raw[:maxErrorBodyLen]) + "..."
	}
	return string(raw)
}
