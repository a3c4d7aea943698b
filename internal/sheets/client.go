// Package sheets reads cell values from Google Sheets with an API key.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/sheetboard/internal/logger"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Credentials identify a spreadsheet and the key used to read it
type Credentials struct {
	SheetID string
	APIKey  string
}

// Valid reports whether both fields are set
func (c Credentials) Valid() bool {
	return c.SheetID != "" && c.APIKey != ""
}

// TransportError is a non-2xx response from the Sheets API
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d - %s", e.Status, e.Body)
}

// Client fetches sheet values. The zero value talks to the public API.
type Client struct {
	endpoint string
	opts     []option.ClientOption
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint points the client at a different API root
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithClientOptions passes extra options to the generated service
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.opts = append(c.opts, opts...)
	}
}

// NewClient creates a client
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) service(ctx context.Context, creds Credentials) (*sheets.Service, error) {
	opts := []option.ClientOption{option.WithAPIKey(creds.APIKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	opts = append(opts, c.opts...)

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	return srv, nil
}

// CheckAccess verifies the key can read the spreadsheet metadata
func (c *Client) CheckAccess(ctx context.Context, creds Credentials) error {
	srv, err := c.service(ctx, creds)
	if err != nil {
		return err
	}

	_, err = srv.Spreadsheets.Get(creds.SheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		err = translate(err)
		logger.Warn("Spreadsheet access check failed", logger.F("sheet", creds.SheetID), logger.F("error", err))
		return err
	}
	return nil
}

// Values returns the cells of rng as strings. A range with no data yields
// nil rows and no error.
func (c *Client) Values(ctx context.Context, creds Credentials, rng string) ([][]string, error) {
	srv, err := c.service(ctx, creds)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Spreadsheets.Values.Get(creds.SheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, translate(err)
	}

	logger.Debug("Fetched sheet range",
		logger.F("range", rng),
		logger.F("rows", len(resp.Values)))
	return Strings(resp.Values), nil
}

// Strings converts raw API cells to strings. Missing cells stay empty.
func Strings(values [][]interface{}) [][]string {
	if len(values) == 0 {
		return nil
	}
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return rows
}

func translate(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		body := strings.TrimSpace(gerr.Body)
		if body == "" {
			body = gerr.Message
		}
		return &TransportError{Status: gerr.Code, Body: body}
	}
	return err
}
