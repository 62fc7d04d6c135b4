package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/joefazee/atlas/models"
)

const (
	DefaultProviderURL     = "https://restcountries.com/v3.1"
	DefaultProviderTimeout = 10 * time.Second

	// listFields keeps the /all payload to what the list and filters use
	listFields = "name,capital,flag,region,cca2,population,area,subregion"

	maxResponseBytes = 8 << 20
)

// FetchError reports a failed master list load
type FetchError struct {
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch countries: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch countries: %v", e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// DetailFetchError reports a failed single country lookup
type DetailFetchError struct {
	Code       string
	StatusCode int
	Cause      error
}

func (e *DetailFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch country %s: unexpected status %d", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("fetch country %s: %v", e.Code, e.Cause)
}

func (e *DetailFetchError) Unwrap() error {
	return e.Cause
}

// ProviderConfig configures the REST Countries client
type ProviderConfig struct {
	BaseURL string        `env:"PROVIDER_BASE_URL" env-default:"https://restcountries.com/v3.1" validate:"required,url"`
	Timeout time.Duration `env:"PROVIDER_TIMEOUT" env-default:"10s"`
}

// RESTProvider reads countries from the REST Countries v3.1 API
type RESTProvider struct {
	baseURL string
	client  *http.Client
}

var _ Provider = (*RESTProvider)(nil)

// NewRESTProvider creates a provider. A nil client gets one with cfg.Timeout.
func NewRESTProvider(cfg ProviderConfig, client *http.Client) *RESTProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultProviderURL
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultProviderTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &RESTProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type listParams struct {
	Fields string `url:"fields"`
}

// FetchAllCountries loads the full country list in provider order
func (p *RESTProvider) FetchAllCountries(ctx context.Context) ([]models.Country, error) {
	values, err := query.Values(listParams{Fields: listFields})
	if err != nil {
		return nil, &FetchError{Cause: err}
	}

	var records []models.ProviderCountry
	status, err := p.getJSON(ctx, p.baseURL+"/all?"+values.Encode(), &records)
	if err != nil {
		return nil, &FetchError{StatusCode: status, Cause: err}
	}
	return models.ToCountryList(records), nil
}

// FetchCountryDetail loads the full record of one country
func (p *RESTProvider) FetchCountryDetail(ctx context.Context, code string) (*models.Country, error) {
	var records []models.ProviderCountry
	status, err := p.getJSON(ctx, p.baseURL+"/alpha/"+url.PathEscape(code), &records)
	if err != nil {
		return nil, &DetailFetchError{Code: code, StatusCode: status, Cause: err}
	}
	if len(records) == 0 {
		return nil, &DetailFetchError{Code: code, Cause: models.ErrRecordNotFound}
	}

	country := records[0].ToCountry()
	return &country, nil
}

// getJSON returns the response status only when it was not 2xx
func (p *RESTProvider) getJSON(ctx context.Context, endpoint string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return resp.StatusCode, fmt.Errorf("status %s", resp.Status)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return 0, nil
}
