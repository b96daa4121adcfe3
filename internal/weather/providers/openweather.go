package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider builds a provider. An empty baseURL selects
// DefaultOpenWeatherBaseURL; a nil limiter disables outbound pacing.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, limiter *rate.Limiter) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         "openweather",
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: countsAsSuccess,
	})

	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			Limiter: limiter,
		},
		circuit: cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Current fetches /weather for city. UnitsStandard leaves temperatures in Kelvin.
func (p *OpenWeatherProvider) Current(ctx context.Context, city string, units weather.Units) (weather.Observation, error) {
	var payload owmEntry
	if err := p.get(ctx, "current", "/weather", city, units, &payload); err != nil {
		return weather.Observation{}, err
	}
	return payload.observation("")
}

// Forecast fetches the 5 day / 3 hour /forecast list for city in Kelvin.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, city string) ([]weather.Observation, error) {
	var payload struct {
		List []owmEntry `json:"list"`
	}
	if err := p.get(ctx, "forecast", "/forecast", city, weather.UnitsStandard, &payload); err != nil {
		return nil, err
	}

	out := make([]weather.Observation, 0, len(payload.List))
	for i, entry := range payload.List {
		obs, err := entry.observation(fmt.Sprintf("list[%d].", i))
		if err != nil {
			return nil, err
		}
		if entry.DtTxt == nil {
			return nil, fmt.Errorf("%w: list[%d].dt_txt missing", weather.ErrDecode, i)
		}
		obs.Time = *entry.DtTxt
		out = append(out, obs)
	}
	return out, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, op, path, city string, units weather.Units, into any) error {
	if p.apiKey == "" {
		return &weather.ProviderError{Op: op, Err: fmt.Errorf("openweather api key is not configured")}
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("appid", p.apiKey)
		if units != "" {
			values.Set("units", string(units))
		}

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return providerError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &weather.ProviderError{Op: op, Err: err}
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrDecode, err)
	}
	return nil
}

// owmEntry is the subset of a /weather response (or a /forecast list item)
// we consume. Pointers distinguish missing fields from zero values.
type owmEntry struct {
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        *string `json:"main"`
		Description string  `json:"description"`
	} `json:"weather"`
	DtTxt *string `json:"dt_txt"`
}

// observation validates the required fields. feels_like is left nil when
// absent; callers decide whether that is fatal.
func (e owmEntry) observation(prefix string) (weather.Observation, error) {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s%s missing", weather.ErrDecode, prefix, field)
	}

	switch {
	case e.Main == nil:
		return weather.Observation{}, missing("main")
	case e.Main.Temp == nil:
		return weather.Observation{}, missing("main.temp")
	case e.Main.Humidity == nil:
		return weather.Observation{}, missing("main.humidity")
	case e.Wind == nil || e.Wind.Speed == nil:
		return weather.Observation{}, missing("wind.speed")
	case len(e.Weather) == 0:
		return weather.Observation{}, missing("weather[0]")
	case e.Weather[0].Main == nil:
		return weather.Observation{}, missing("weather[0].main")
	}

	return weather.Observation{
		Temperature: *e.Main.Temp,
		FeelsLike:   e.Main.FeelsLike,
		Humidity:    *e.Main.Humidity,
		WindSpeed:   *e.Wind.Speed,
		Condition:   *e.Weather[0].Main,
		Description: e.Weather[0].Description,
	}, nil
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)
