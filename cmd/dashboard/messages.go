package main

// StatusMsg carries a fresh status document from the control server.
type StatusMsg struct {
	Status statusPayload
}

// SpotMsg carries the latest spot price.
type SpotMsg struct {
	Instrument string
	Price      float64
}

// FetchErrorMsg indicates a failed poll of the control server.
type FetchErrorMsg struct {
	Err error
}

// ControlDoneMsg signals that a start/stop request completed.
type ControlDoneMsg struct {
	Running bool
}

// pollTickMsg drives the periodic refresh.
type pollTickMsg struct{}
