package domain

// FeatureRow holds the derived indicators and signal flags for one ticker/date.
// Rolling indicators are pointers because they are undefined until their
// lookback window fills (and RSI stays undefined when the window has no
// losses); they round-trip as optional parquet columns.
type FeatureRow struct {
	Date          string   `parquet:"date"`
	Ticker        string   `parquet:"ticker"`
	Exchange      string   `parquet:"exchange"`
	Px            float64  `parquet:"px"`
	SMA20         *float64 `parquet:"sma20,optional"`
	SMA50         *float64 `parquet:"sma50,optional"`
	EMA20         float64  `parquet:"ema20"`
	RSI14         *float64 `parquet:"rsi14,optional"`
	MACD          float64  `parquet:"macd"`
	MACDSignal    float64  `parquet:"macd_signal"`
	MACDHist      float64  `parquet:"macd_hist"`
	BullCross     bool     `parquet:"bull_cross"`
	BearCross     bool     `parquet:"bear_cross"`
	RSIOverbought bool     `parquet:"rsi_overbought"`
	RSIOversold   bool     `parquet:"rsi_oversold"`
}
