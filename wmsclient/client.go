// Package wmsclient implements ncwms.MetadataClient against the GetMetadata
// and GetFeatureInfo endpoints of an ncWMS server.
package wmsclient

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ctessum/requestcache"
	ncwms "github.com/kwilcox/ncWMS"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Config configures a Client.
type Config struct {
	// Server is the base address of the ncWMS web application, e.g.
	// "http://localhost:8080/ncWMS". Requests go to Server + "/wms".
	Server string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration

	// Retries is the number of times a request that failed with a network
	// error or a server error is retried, waiting RetryInterval in between.
	Retries       uint64
	RetryInterval time.Duration

	// CacheSize is the number of variable lists and variable details held
	// in memory. Zero disables caching.
	CacheSize int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Server:        "http://localhost:8080/ncWMS",
		Retries:       3,
		RetryInterval: time.Second,
		CacheSize:     100,
	}
}

// Client retrieves viewer metadata from an ncWMS server.
type Client struct {
	cfg      Config
	endpoint string

	HTTP    *http.Client
	Log     logrus.FieldLogger
	Metrics *Metrics

	cache *requestcache.Cache
}

var _ ncwms.MetadataClient = (*Client)(nil)

// New returns a client for the server in cfg, registering its metrics
// against reg (or the default registry if reg is nil).
func New(cfg Config, reg prometheus.Registerer) (*Client, error) {
	u, err := url.Parse(cfg.Server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("wmsclient: invalid server address %q", cfg.Server)
	}
	m, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	c := &Client{
		cfg:      cfg,
		endpoint: strings.TrimSuffix(cfg.Server, "/") + "/wms",
		HTTP:     &http.Client{Timeout: cfg.Timeout},
		Log:      logrus.StandardLogger(),
		Metrics:  m,
	}
	if cfg.CacheSize > 0 {
		c.cache = requestcache.NewCache(c.fetchCached, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(cfg.CacheSize))
	}
	return c, nil
}

// WMSURL returns the server's WMS endpoint, for building map requests.
func (c *Client) WMSURL() string { return c.endpoint }

// statusError is an unsuccessful HTTP response.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("wmsclient: %s: %d %s", e.url, e.code, http.StatusText(e.code))
}

// get performs a GET request for q, retrying network failures and 5xx
// responses with a constant backoff.
func (c *Client) get(ctx context.Context, item string, q url.Values) ([]byte, error) {
	u := c.endpoint + "?" + q.Encode()
	log := c.Log.WithFields(logrus.Fields{"item": item, "url": u})
	start := time.Now()
	defer func() {
		c.Metrics.Durations.WithLabelValues(item).Observe(time.Since(start).Seconds())
	}()

	var body []byte
	op := func() error {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.HTTP.Do(req.WithContext(ctx))
		if err != nil {
			c.Metrics.Requests.WithLabelValues(item, "error").Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()
		c.Metrics.Requests.WithLabelValues(item, strconv.Itoa(resp.StatusCode)).Inc()
		if resp.StatusCode != http.StatusOK {
			err := &statusError{code: resp.StatusCode, url: u}
			if resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}
		body, err = ioutil.ReadAll(resp.Body)
		return err
	}

	bkf := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.RetryInterval), c.cfg.Retries), ctx)
	err := backoff.RetryNotify(op, bkf, func(err error, d time.Duration) {
		c.Metrics.Retries.WithLabelValues(item).Inc()
		log.Warnf("%v: retrying in %v", err, d)
	})
	if err != nil {
		log.WithError(err).Error("ncWMS request failed")
		return nil, err
	}
	log.Debug("ncWMS request")
	return body, nil
}

func metadataQuery(item string, kv ...string) url.Values {
	q := url.Values{}
	q.Set("REQUEST", "GetMetadata")
	q.Set("item", item)
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	return q
}

// cachedRequest is the payload of a cached metadata request.
type cachedRequest struct {
	item  string
	query url.Values
}

func (r cachedRequest) key() string { return r.item + "?" + r.query.Encode() }

func (c *Client) fetchCached(ctx context.Context, payload interface{}) (interface{}, error) {
	r := payload.(cachedRequest)
	c.Metrics.CacheMisses.WithLabelValues(r.item).Inc()
	body, err := c.get(ctx, r.item, r.query)
	if err != nil {
		return nil, err
	}
	switch r.item {
	case "variables":
		return parseVariables(body)
	case "variableDetails":
		return parseVariableDetails(body)
	}
	return nil, fmt.Errorf("wmsclient: item %s is not cacheable", r.item)
}

func (c *Client) cached(ctx context.Context, r cachedRequest) (interface{}, error) {
	if c.cache == nil {
		return c.fetchCached(ctx, r)
	}
	return c.cache.NewRequest(ctx, r, r.key()).Result()
}

// ListDatasets returns the datasets whose identifiers start with filter.
func (c *Client) ListDatasets(ctx context.Context, filter string) ([]ncwms.Dataset, error) {
	q := metadataQuery("datasets")
	if filter != "" {
		q.Set("filter", filter)
	}
	body, err := c.get(ctx, "datasets", q)
	if err != nil {
		return nil, err
	}
	return parseDatasets(body)
}

// ListVariables returns the variables in a dataset.
func (c *Client) ListVariables(ctx context.Context, datasetID string) ([]ncwms.Variable, error) {
	resultI, err := c.cached(ctx, cachedRequest{item: "variables", query: metadataQuery("variables", "dataset", datasetID)})
	if err != nil {
		return nil, err
	}
	vars := resultI.([]ncwms.Variable)
	return append([]ncwms.Variable(nil), vars...), nil
}

// VariableDetails returns the units, vertical axis and extent of a variable.
func (c *Client) VariableDetails(ctx context.Context, datasetID, variable string) (*ncwms.VariableDetails, error) {
	resultI, err := c.cached(ctx, cachedRequest{
		item:  "variableDetails",
		query: metadataQuery("variableDetails", "dataset", datasetID, "variable", variable),
	})
	if err != nil {
		return nil, err
	}
	return cloneDetails(resultI.(*ncwms.VariableDetails)), nil
}

// cloneDetails copies d so that callers cannot modify cached values.
func cloneDetails(d *ncwms.VariableDetails) *ncwms.VariableDetails {
	o := *d
	if d.Axis != nil {
		a := *d.Axis
		a.Levels = append([]float64(nil), d.Axis.Levels...)
		o.Axis = &a
	}
	return &o
}

// Calendar returns the month view around the timestep nearest dateTime, or
// ncwms.ErrNoCalendarData if the variable has no time axis.
func (c *Client) Calendar(ctx context.Context, datasetID, variable, dateTime string) (*ncwms.Calendar, error) {
	body, err := c.get(ctx, "calendar", metadataQuery("calendar", "dataset", datasetID, "variable", variable, "dateTime", dateTime))
	if err != nil {
		return nil, err
	}
	return parseCalendar(body)
}

// Timesteps returns the timesteps on the same day as the timestep tIndex.
func (c *Client) Timesteps(ctx context.Context, datasetID, variable string, tIndex int) ([]ncwms.Timestep, error) {
	body, err := c.get(ctx, "timesteps", metadataQuery("timesteps", "dataset", datasetID, "variable", variable, "tIndex", strconv.Itoa(tIndex)))
	if err != nil {
		return nil, err
	}
	return parseTimesteps(body)
}

// MinMax returns the data range of a layer sampled on a coarse grid.
func (c *Client) MinMax(ctx context.Context, req ncwms.MinMaxRequest) (*ncwms.MinMax, error) {
	body, err := c.get(ctx, "minmax", req.Values())
	if err != nil {
		return nil, err
	}
	return parseMinMax(body)
}

// FeatureInfo returns the data value under a pixel of a map image.
func (c *Client) FeatureInfo(ctx context.Context, req ncwms.FeatureInfoRequest) (*ncwms.FeatureInfo, error) {
	body, err := c.get(ctx, "featureinfo", req.Values())
	if err != nil {
		return nil, err
	}
	return parseFeatureInfo(body)
}
