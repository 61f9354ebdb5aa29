package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	logx "homeworkbot/pkg/logx"
)

// DefaultEndpoint is the production homework-status API.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const defaultTimeout = 30 * time.Second

type Config struct {
	Token    string
	Endpoint string        // defaults to DefaultEndpoint
	Timeout  time.Duration // defaults to 30s
}

// Client calls the homework-status API. Safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
	log  logx.Logger
}

func New(cfg Config, log logx.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("practicum token is empty")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// Statuses fetches homework updates since fromDate (unix seconds).
//
// Errors are classified: *TransportError for network failures,
// *StatusError for non-200 responses, *DecodeError for malformed bodies.
// The decoded payload is returned unmodified; shape validation is the
// caller's job (CheckResponse).
func (c *Client) Statuses(ctx context.Context, fromDate int64) (Payload, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// A well-formed body that is not a JSON object is a contract
		// violation, not a decode failure.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ShapeError{Key: "response", Kind: ShapeWrongType, Want: "object"}
		}
		return nil, &DecodeError{Err: err}
	}

	c.log.Debug("statuses fetched",
		logx.Int64("from_date", fromDate),
		logx.Duration("took", time.Since(start)))
	return payload, nil
}
