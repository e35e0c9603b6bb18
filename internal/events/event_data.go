package events

// EventData is the interface that all event data types must implement.
// This allows for type-safe event data while keeping the bus generic.
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// RunStartedData contains data for RunStarted events
type RunStartedData struct {
	RunID       string  `json:"run_id"`
	Generation  int64   `json:"generation"`
	RiskPremium float64 `json:"risk_premium"`
}

// EventType returns the event type for RunStartedData
func (d *RunStartedData) EventType() EventType {
	return RunStarted
}

// RunPublishedData contains data for RunPublished events
type RunPublishedData struct {
	RunID        string  `json:"run_id"`
	Generation   int64   `json:"generation"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	RiskPremium  float64 `json:"risk_premium"`
	Funds        int     `json:"funds"`
	DurationMs   int64   `json:"duration_ms"`
}

// EventType returns the event type for RunPublishedData
func (d *RunPublishedData) EventType() EventType {
	return RunPublished
}

// RunSupersededData contains data for RunSuperseded events
type RunSupersededData struct {
	RunID          string `json:"run_id"`
	Generation     int64  `json:"generation"`
	PublishedByGen int64  `json:"published_by_generation"`
}

// EventType returns the event type for RunSupersededData
func (d *RunSupersededData) EventType() EventType {
	return RunSuperseded
}

// FundDegradedData contains data for FundDegraded events: the secondary
// lookup for one ticker failed and the record passed through incomplete.
type FundDegradedData struct {
	Ticker string `json:"ticker"`
	Error  string `json:"error"`
}

// EventType returns the event type for FundDegradedData
func (d *FundDegradedData) EventType() EventType {
	return FundDegraded
}

// RunFailedData contains data for RunFailed events
type RunFailedData struct {
	RunID      string `json:"run_id"`
	Generation int64  `json:"generation"`
	Error      string `json:"error"`
}

// EventType returns the event type for RunFailedData
func (d *RunFailedData) EventType() EventType {
	return RunFailed
}
