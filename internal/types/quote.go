package types

// StrikeQuote is one option contract observed in the tick store: its strike,
// last traded price and the identifiers needed to trade it.
type StrikeQuote struct {
	Strike    float64 `json:"strike_price"`
	LastPrice float64 `json:"last_price"`
	Token     int64   `json:"token"`
	Symbol    string  `json:"symbol"`
}

// HighLow is the observed price band of a contract over a window.
type HighLow struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}
