// Package endee is a Go client for the Endee vector-search service. It
// validates and normalizes records client-side, frames metadata as
// compressed (optionally encrypted) blobs, and speaks the service's msgpack
// tuple protocol for writes and reads.
package endee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/itspunkaj/endee-go/internal/metacodec"
)

// DefaultBaseURL targets a locally running service.
const DefaultBaseURL = "http://127.0.0.1:8080/api/v1"

const defaultTimeout = 30 * time.Second

// Client talks to the Endee API. All methods are safe for concurrent use;
// the client holds no mutable state after construction.
type Client struct {
	baseURL       string
	token         string
	encryptionKey string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewClient builds a client. A token of the form "key:secret:host" routes
// requests to https://<host>.endee.io/api/v1 and sends only "key:secret" as
// the authorization value; any other token (or none) targets
// DefaultBaseURL unless WithBaseURL overrides it.
func NewClient(token string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	if parts := strings.Split(token, ":"); len(parts) > 2 {
		c.baseURL = "https://" + parts[2] + ".endee.io/api/v1"
		c.token = parts[0] + ":" + parts[1]
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.encryptionKey != "" {
		if err := metacodec.ValidateKey(c.encryptionKey); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CreateIndex creates a new index. Name and shape constraints are enforced
// before the request is issued; see CreateIndexOptions for defaults.
func (c *Client) CreateIndex(ctx context.Context, opts CreateIndexOptions) error {
	if !ValidateIndexName(opts.Name) {
		return fmt.Errorf("%w: %q must be alphanumeric or underscore and shorter than %d characters",
			ErrInvalidIndexName, opts.Name, maxIndexNameLen)
	}
	if opts.Dimension <= 0 || opts.Dimension > MaxDimension {
		return fmt.Errorf("%w: dimension %d not in [1, %d]", ErrInvalidIndexConfig, opts.Dimension, MaxDimension)
	}
	if opts.SparseDimension < 0 {
		return fmt.Errorf("%w: sparse dimension cannot be negative", ErrInvalidIndexConfig)
	}

	space := opts.SpaceType
	if space == "" {
		space = SpaceCosine
	}
	space, err := ParseSpaceType(string(space))
	if err != nil {
		return err
	}
	precision := opts.Precision
	if precision == "" {
		precision = PrecisionInt8D
	}
	precision, err = ParsePrecision(string(precision))
	if err != nil {
		return err
	}
	m := opts.M
	if m == 0 {
		m = DefaultM
	}
	efCon := opts.EFConstruction
	if efCon == 0 {
		efCon = DefaultEFConstruction
	}

	payload := map[string]any{
		"index_name": opts.Name,
		"dim":        opts.Dimension,
		"space_type": string(space),
		"M":          m,
		"ef_con":     efCon,
		"checksum":   metacodec.KeyChecksum(c.encryptionKey),
		"precision":  string(precision),
	}
	if opts.SparseDimension > 0 {
		payload["sparse_dim"] = opts.SparseDimension
	}
	if opts.Version > 0 {
		payload["version"] = opts.Version
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("endee: encode create index: %w", err)
	}
	_, err = c.postJSON(ctx, "/index/create", body)
	return err
}

// ListIndexes returns the service's index listing as raw JSON.
func (c *Client) ListIndexes(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/index/list")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DeleteIndex removes an index and everything in it.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	_, err := c.delete(ctx, "/index/"+name+"/delete")
	return err
}

// GetIndex fetches the configuration of an existing index and returns a
// handle bound to it.
func (c *Client) GetIndex(ctx context.Context, name string) (*Index, error) {
	body, err := c.get(ctx, "/index/"+name+"/info")
	if err != nil {
		return nil, err
	}
	var info indexInfoPayload
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: parse index info: %v", ErrWireFormat, err)
	}

	space := SpaceCosine
	if info.SpaceType != "" {
		if space, err = ParseSpaceType(info.SpaceType); err != nil {
			return nil, err
		}
	}
	precision := PrecisionInt8D
	if info.Precision != "" {
		if precision, err = ParsePrecision(info.Precision); err != nil {
			return nil, err
		}
	}
	m := info.M
	if m == 0 {
		m = DefaultM
	}

	ix := &Index{
		name:      name,
		client:    c,
		spaceType: space,
		dimension: info.Dimension,
		precision: precision,
		m:         m,
		count:     info.TotalElements,
	}
	if info.SparseDim != nil {
		ix.sparseDimension = *info.SparseDim
	}
	return ix, nil
}
