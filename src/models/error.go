package models

import "fmt"

// Base error classes. Specific failures wrap one of these so callers can
// branch with errors.Is on the class alone.
var ValidationErr = fmt.Errorf("input series failed validation")
var InsufficientDataErr = fmt.Errorf("not enough price history")
var ConfigurationErr = fmt.Errorf("invalid aggregation configuration")

var MisalignedSeriesErr = fmt.Errorf("%w: price and signal series lengths differ", ValidationErr)
var CandlesNotSortedErr = fmt.Errorf("%w: candles are not in ascending date order", ValidationErr)
var DuplicateCandleErr = fmt.Errorf("%w: duplicate candle date", ValidationErr)
var NegativeCommissionErr = fmt.Errorf("%w: commission rate must be non negative", ValidationErr)
var ScoreOutOfRangeErr = fmt.Errorf("%w: category score must be between -1 and 1", ValidationErr)

var WeightSumErr = fmt.Errorf("%w: category weights must sum to 1.0", ConfigurationErr)
var NegativeWeightErr = fmt.Errorf("%w: category weights must be non negative", ConfigurationErr)

var NoTradeIDErr = fmt.Errorf("trade id not set")
var InvalidTradeWindowErr = fmt.Errorf("trade exit index must be greater than its entry index")
var InvalidTradePriceErr = fmt.Errorf("trade prices must be positive")

type ErrorDTO struct {
	Msg string `json:"msg"`
}
