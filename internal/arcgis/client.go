// Package arcgis downloads perimeter features from ArcGIS feature service
// layers. Queries return GeoJSON and page through resultOffset until the
// layer is exhausted.
package arcgis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/logging"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// DefaultHTTPTimeout is the default timeout for feature service requests.
var DefaultHTTPTimeout = 120 * time.Second

// defaultPageSize is the record count requested per page. Most public
// ArcGIS layers cap transfers at 1000 or 2000 records.
const defaultPageSize = 1000

// endpoints are the known public feature service layers per source. MTBS
// and USFS FACTS have no queryable perimeter service and are ingested from
// files instead.
var endpoints = map[perimeters.SourceID]string{
	perimeters.WFIGSInteragency: "https://services3.arcgis.com/T4QMspbfLg3qTGWY/ArcGIS/rest/services/WFIGS_Interagency_Perimeters/FeatureServer/0",
	perimeters.WFIGSHistorical:  "https://services3.arcgis.com/T4QMspbfLg3qTGWY/ArcGIS/rest/services/InterAgencyFirePerimeterHistory_All_Years_View/FeatureServer/0",
	perimeters.GeoMAC:           "https://services3.arcgis.com/T4QMspbfLg3qTGWY/ArcGIS/rest/services/Historic_Geomac_Perimeters_Combined_2000_2018/FeatureServer/0",
	perimeters.BLMColorado:      "https://gis.blm.gov/coarcgis/rest/services/vegetation/BLM_Colorado_Vegetation_Treatment_Area_Completed_Polygons/FeatureServer/23",
}

// Endpoint returns the feature service layer URL for a source.
func Endpoint(id perimeters.SourceID) (string, bool) {
	u, ok := endpoints[id]
	return u, ok
}

// Client queries ArcGIS feature service layers.
type Client struct {
	http     *http.Client
	pageSize int
	logger   *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithPageSize sets the record count requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a feature service client.
func New(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultHTTPTimeout},
		pageSize: defaultPageSize,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query fetches every feature of the layer matching the where clause. An
// empty where clause fetches the whole layer.
func (c *Client) Query(ctx context.Context, layerURL, where string) (*geojson.FeatureCollection, error) {
	if where == "" {
		where = "1=1"
	}

	all := geojson.NewFeatureCollection()
	offset := 0
	for {
		page, err := c.queryPage(ctx, layerURL, where, offset)
		if err != nil {
			return nil, err
		}
		all.Features = append(all.Features, page.Features...)

		c.logger.Debug().
			Str("layer", layerURL).
			Int("offset", offset).
			Int("features", len(page.Features)).
			Msg("fetched feature page")

		if len(page.Features) < c.pageSize {
			return all, nil
		}
		offset += c.pageSize
	}
}

func (c *Client) queryPage(ctx context.Context, layerURL, where string, offset int) (*geojson.FeatureCollection, error) {
	params := url.Values{}
	params.Set("where", where)
	params.Set("outFields", "*")
	params.Set("f", "geojson")
	params.Set("resultOffset", strconv.Itoa(offset))
	params.Set("resultRecordCount", strconv.Itoa(c.pageSize))

	queryURL := fmt.Sprintf("%s/query?%s", layerURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &errors.ServiceError{URL: layerURL, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.ServiceError{URL: layerURL, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ServiceError{URL: layerURL, Message: "read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errors.ServiceError{URL: layerURL, StatusCode: resp.StatusCode, Message: string(body)}
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, errors.WrapParse("geojson", layerURL, err)
	}
	return fc, nil
}
