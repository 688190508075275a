package model

// PriceTick is one real-time trade price observation for a stock.
type PriceTick struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"current_price"`
	Change     float64 `json:"change"`
	ChangeSign string  `json:"change_sign"` // venue code: 1 upper limit, 2 up, 3 flat, 4 lower limit, 5 down
	ChangeRate float64 `json:"change_rate"`
	TradeValue int64   `json:"trade_value"` // cumulative traded value (KRW)
	Time       string  `json:"timestamp"`   // HH:MM:SS
}

// QuoteTick is one best-quote observation for a stock.
type QuoteTick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"quote"`
	Time   string  `json:"timestamp"`
}

// IndexTick is one sector index observation. The venue pushes ~30
// positional fields; optional ones stay zero when the venue omits them.
type IndexTick struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Level      float64 `json:"level"`
	ChangeSign string  `json:"change_sign"`
	Change     float64 `json:"change"`
	ChangeRate float64 `json:"change_rate"`
	Volume     int64   `json:"acml_volume"`
	Value      int64   `json:"acml_value"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`

	// Market breadth counters.
	UpperLimitCount int `json:"upper_limit_count"`
	UpCount         int `json:"up_count"`
	FlatCount       int `json:"flat_count"`
	DownCount       int `json:"down_count"`
	LowerLimitCount int `json:"lower_limit_count"`

	Time string `json:"timestamp"`
}

// Execution type codes pushed on the fill feed.
const (
	ExecFilled  = "1" // order (partially) filled
	ExecAmended = "2" // order amended or cancelled
)

// ExecutionEvent is one order fill / amend notification.
type ExecutionEvent struct {
	OrderNo  string  `json:"order_no"`
	ExecType string  `json:"exec_type"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"qty"`
	Time     string  `json:"timestamp"`
}

// Filled reports whether the event represents an actual fill.
func (e ExecutionEvent) Filled() bool {
	return e.ExecType == ExecFilled
}
