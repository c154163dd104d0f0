// Package neocc fetches and normalizes data from the ESA NEOCC portal:
// catalog lists, per-object tabs and on-demand ephemerides. Fetching is
// isolated behind the Fetcher interface so the parsing pipeline can be
// exercised against fixture payloads.
package neocc

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"neocc-backend/lib/restyutil"
	"neocc-backend/lib/schema"
	"neocc-backend/lib/sections"
	"neocc-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/neocc")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables raw HTTP message dumps for clients
// created afterwards. Intended for debugging scraper breakage.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

const DefaultBaseURL = "https://neo.ssa.esa.int/"

// Portal paths. Catalogs and text tabs come from the download portlet,
// HTML tabs from the search page, ephemerides from their own service.
const (
	downloadPath    = "PSDB-portlet/download"
	ephemeridesPath = "PSDB-portlet/ephemerides"
	searchPath      = "search-for-asteroids"
)

// catalogFiles maps catalog categories onto the portlet file names.
var catalogFiles = map[schema.Category]string{
	schema.NEAList:               "allneo.lst",
	schema.RiskList:              "esa_risk_list",
	schema.RiskListSpecial:       "esa_special_risk_list",
	schema.CloseApproachUpcoming: "esa_upcoming_close_app",
	schema.CloseApproachRecent:   "esa_recent_close_app",
	schema.PriorityList:          "esa_priority_neo_list",
	schema.PriorityListFaint:     "esa_faint_neo_list",
}

// FetchError wraps any transport-level failure. It is deliberately opaque:
// the engine does not retry, the caller decides.
type FetchError struct {
	Category schema.Category
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.Category, e.Status)
	}
	return fmt.Sprintf("fetching %s: %s", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves the raw payload of one category. Tests substitute a
// fixture-backed implementation.
type Fetcher interface {
	Fetch(ctx context.Context, category schema.Category, params url.Values) (sections.RawPayload, error)
}

type ClientOptions struct {
	// portal root, DefaultBaseURL when empty
	BaseURL string
	// requests per second against the portal, default 2
	RequestsPerSecond float64
	// overrides the HTTP fetcher entirely when set
	Fetcher Fetcher
}

// Client is the caller-facing query API. All Query* methods fetch one
// payload, split it and extract a normalized table.
type Client struct {
	fetcher  Fetcher
	registry *schema.Registry
}

func NewClient(opts ClientOptions) (*Client, error) {
	registry := schema.NewRegistry()
	if opts.Fetcher != nil {
		return &Client{fetcher: opts.Fetcher, registry: registry}, nil
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("bad base url: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetTimeout(time.Second * 60)

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	rateLimiter := rate.NewLimiter(rate.Limit(rps), 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "scrapers/neocc/http")
	restyutil.InstrumentClient(httpClient, tracer, restyInstrumentOutput)

	return &Client{
		fetcher:  &httpFetcher{http: httpClient},
		registry: registry,
	}, nil
}

// httpFetcher resolves a category to its portal endpoint and performs the
// GET. The "path" params key routes to the endpoint and is stripped before
// the request.
type httpFetcher struct {
	http *resty.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, category schema.Category, params url.Values) (sections.RawPayload, error) {
	path := params.Get("path")
	query := url.Values{}
	for k, vals := range params {
		if k == "path" {
			continue
		}
		for _, v := range vals {
			query.Add(k, v)
		}
	}

	res, err := f.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	if err != nil {
		return sections.RawPayload{}, &FetchError{Category: category, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return sections.RawPayload{}, &FetchError{Category: category, Status: res.StatusCode()}
	}

	return sections.RawPayload{
		Category:  category,
		Params:    query,
		Body:      res.Body(),
		Retrieved: time.Now().UTC(),
	}, nil
}
