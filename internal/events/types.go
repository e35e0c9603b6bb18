// Package events provides event management functionality.
package events

// EventType represents different event types
type EventType string

const (
	RunStarted    EventType = "RUN_STARTED"
	RunPublished  EventType = "RUN_PUBLISHED"
	RunSuperseded EventType = "RUN_SUPERSEDED"
	RunFailed     EventType = "RUN_FAILED"
	FundDegraded  EventType = "FUND_DEGRADED"
)

// AllTypes lists every event type, in emission order of a typical run.
func AllTypes() []EventType {
	return []EventType{RunStarted, FundDegraded, RunPublished, RunSuperseded, RunFailed}
}
