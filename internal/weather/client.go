package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls a WeatherAPI.com-compatible REST endpoint and normalizes
// its heterogeneous response shapes. Failures never surface as Go errors:
// non-200 statuses and malformed bodies become structured error payloads
// inside the Report.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// upstream response shape; exactly one substructure is expected.
type apiResponse struct {
	Current *struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		Humidity int     `json:"humidity"`
		WindKPH  float64 `json:"wind_kph"`
	} `json:"current"`
	Forecast *apiForecast `json:"forecast"`
	History  *apiForecast `json:"history"`
}

type apiForecast struct {
	ForecastDay []struct {
		Date string `json:"date"`
		Day  struct {
			AvgTempC  float64 `json:"avgtemp_c"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"day"`
	} `json:"forecastday"`
}

// Fetch performs one blocking lookup. Request-shape precedence: a set
// Date always selects the historical endpoint, even when ForecastDays is
// also set.
func (c *Client) Fetch(ctx context.Context, q Query) Report {
	requestURL := c.buildURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Report{Err: &APIError{Message: "Weather API request failed", Details: err.Error()}}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Report{Err: &APIError{Message: "Weather API request failed", Details: err.Error()}}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Report{Err: &APIError{Message: "Weather API request failed", Details: err.Error()}}
	}

	if resp.StatusCode != http.StatusOK {
		return Report{Err: &APIError{
			Message: fmt.Sprintf("API request failed with status code %d", resp.StatusCode),
			Details: string(body),
		}}
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Report{Err: &APIError{Message: "Failed to parse JSON from Weather API response"}}
	}

	return normalize(q, parsed)
}

func (c *Client) buildURL(q Query) string {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", q.Latitude+","+q.Longitude)

	var endpoint string
	switch {
	case q.Date != "":
		endpoint = "/history.json"
		params.Set("dt", q.Date)
	case q.ForecastDays > 0:
		endpoint = "/forecast.json"
		params.Set("days", strconv.Itoa(q.ForecastDays))
	default:
		endpoint = "/current.json"
	}
	return c.baseURL + endpoint + "?" + params.Encode()
}

// normalize keys the output shape on which substructure the API returned,
// not on which endpoint was requested.
func normalize(q Query, parsed apiResponse) Report {
	switch {
	case parsed.Current != nil:
		return Report{Current: &CurrentReport{
			Latitude:     q.Latitude,
			Longitude:    q.Longitude,
			TemperatureC: parsed.Current.TempC,
			Condition:    parsed.Current.Condition.Text,
			Humidity:     parsed.Current.Humidity,
			WindKPH:      parsed.Current.WindKPH,
		}}
	case parsed.Forecast != nil && len(parsed.Forecast.ForecastDay) > 0:
		days := make([]ForecastDay, len(parsed.Forecast.ForecastDay))
		for i, d := range parsed.Forecast.ForecastDay {
			days[i] = ForecastDay{
				Date:         d.Date,
				TemperatureC: d.Day.AvgTempC,
				Condition:    d.Day.Condition.Text,
			}
		}
		return Report{Forecast: &ForecastReport{
			Latitude:  q.Latitude,
			Longitude: q.Longitude,
			Forecast:  days,
		}}
	case parsed.History != nil && len(parsed.History.ForecastDay) > 0:
		d := parsed.History.ForecastDay[0]
		return Report{History: &HistoryReport{
			Latitude:     q.Latitude,
			Longitude:    q.Longitude,
			Date:         d.Date,
			TemperatureC: d.Day.AvgTempC,
			Condition:    d.Day.Condition.Text,
		}}
	default:
		return Report{Err: &APIError{Message: "Unexpected API response format"}}
	}
}
