package weather

import "encoding/json"

// Query selects which weather lookup is performed. Exactly one request
// shape is sent: Date set wins (historical), then ForecastDays
// (forecast), then neither (current conditions).
type Query struct {
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	Date         string `json:"date,omitempty"`          // YYYY-MM-DD
	ForecastDays int    `json:"forecast_days,omitempty"` // 1-10
}

// APIError is the structured payload a failed lookup normalizes into.
// It is data, not a Go error: the weather path always answers something.
type APIError struct {
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

type CurrentReport struct {
	Latitude     string  `json:"latitude"`
	Longitude    string  `json:"longitude"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
	Humidity     int     `json:"humidity"`
	WindKPH      float64 `json:"wind_kph"`
}

type ForecastDay struct {
	Date         string  `json:"date"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
}

type ForecastReport struct {
	Latitude  string        `json:"latitude"`
	Longitude string        `json:"longitude"`
	Forecast  []ForecastDay `json:"forecast"`
}

type HistoryReport struct {
	Latitude     string  `json:"latitude"`
	Longitude    string  `json:"longitude"`
	Date         string  `json:"date"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
}

// Report carries exactly one of the three normalized shapes, or the
// error payload when the upstream call failed.
type Report struct {
	Current  *CurrentReport  `json:"current,omitempty"`
	Forecast *ForecastReport `json:"forecast,omitempty"`
	History  *HistoryReport  `json:"history,omitempty"`
	Err      *APIError       `json:"err,omitempty"`
}

// Degraded reports whether the lookup failed and the payload is the
// normalized error rather than weather data.
func (r Report) Degraded() bool {
	return r.Err != nil
}

// Format renders the report as the compact JSON string handed back to the
// chat caller.
func (r Report) Format() string {
	var payload any
	switch {
	case r.Err != nil:
		payload = r.Err
	case r.Current != nil:
		payload = r.Current
	case r.Forecast != nil:
		payload = r.Forecast
	case r.History != nil:
		payload = r.History
	default:
		payload = APIError{Message: "Unexpected API response format"}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return `{"error": "Unexpected API response format"}`
	}
	return string(b)
}
