package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultPort is the REST port the cluster listens on unless the address
// says otherwise.
const DefaultPort = 6333

// ErrReadOnly is returned when a write is attempted through a read-only
// client.
var ErrReadOnly = errors.New("client is in read-only mode")

// Client is an interface for interacting with a cluster for administrative
// tasks.
type Client interface {
	// GetCluster gets the peer topology of the cluster.
	GetCluster(ctx context.Context) (ClusterInfo, error)

	// GetCollections gets the names of all collections in the cluster.
	GetCollections(ctx context.Context) ([]string, error)

	// GetCollectionShards gets the shard topology of a single collection.
	GetCollectionShards(
		ctx context.Context,
		collection string,
	) (CollectionShardsInfo, error)

	// MoveShard relocates a shard assignment between two peers. A non-200
	// response is returned as an error carrying the status and body.
	MoveShard(
		ctx context.Context,
		collection string,
		params MoveShardParams,
	) error
}

// HTTPAdminClient is a Client implementation that talks to the cluster's
// REST API.
type HTTPAdminClient struct {
	baseURL    string
	httpClient *http.Client
	readOnly   bool
}

var _ Client = (*HTTPAdminClient)(nil)

// NewHTTPAdminClient creates a new HTTPAdminClient for the argument node
// address. The address may be a bare host or IP, in which case the default
// scheme and port are added.
func NewHTTPAdminClient(
	addr string,
	timeout time.Duration,
	readOnly bool,
) *HTTPAdminClient {
	return &HTTPAdminClient{
		baseURL: BaseURL(addr),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		readOnly: readOnly,
	}
}

// BaseURL normalizes a node address into a base URL, e.g. "10.0.0.6"
// becomes "http://10.0.0.6:6333".
func BaseURL(addr string) string {
	url := addr
	if !strings.Contains(url, "://") {
		url = fmt.Sprintf("http://%s", url)
	}
	if !strings.Contains(strings.SplitN(url, "://", 2)[1], ":") {
		url = fmt.Sprintf("%s:%d", url, DefaultPort)
	}
	return strings.TrimRight(url, "/")
}

func (c *HTTPAdminClient) GetCluster(ctx context.Context) (ClusterInfo, error) {
	resp := clusterResponse{}
	if err := c.get(ctx, "/cluster", &resp); err != nil {
		return ClusterInfo{}, err
	}
	return resp.Result, nil
}

func (c *HTTPAdminClient) GetCollections(ctx context.Context) ([]string, error) {
	resp := collectionsResponse{}
	if err := c.get(ctx, "/collections", &resp); err != nil {
		return nil, err
	}

	names := []string{}
	for _, collection := range resp.Result.Collections {
		names = append(names, collection.Name)
	}
	return names, nil
}

func (c *HTTPAdminClient) GetCollectionShards(
	ctx context.Context,
	collection string,
) (CollectionShardsInfo, error) {
	resp := collectionShardsResponse{}
	path := fmt.Sprintf("/collections/%s/cluster", collection)
	if err := c.get(ctx, path, &resp); err != nil {
		return CollectionShardsInfo{}, err
	}
	return resp.Result, nil
}

func (c *HTTPAdminClient) MoveShard(
	ctx context.Context,
	collection string,
	params MoveShardParams,
) error {
	if c.readOnly {
		return ErrReadOnly
	}

	body, err := json.Marshal(MoveShardRequest{MoveShard: params})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/collections/%s/cluster", c.baseURL, collection)
	log.Debugf("POST %s - payload: %s", url, body)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf(
			"move request failed with status %d: %s",
			resp.StatusCode,
			respBody,
		)
	}

	return nil
}

func (c *HTTPAdminClient) get(
	ctx context.Context,
	path string,
	result interface{},
) error {
	url := c.baseURL + path
	log.Debugf("GET %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf(
			"request to %s failed with status %d: %s",
			url,
			resp.StatusCode,
			respBody,
		)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
