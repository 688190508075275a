package parser

import (
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

// H0STCNT0 positional offsets.
const (
	priceFieldSymbol     = 0
	priceFieldTime       = 1
	priceFieldPrice      = 2
	priceFieldChangeSign = 3
	priceFieldChange     = 4
	priceFieldChangeRate = 5
	priceFieldTradeValue = 14

	priceMinFields = 15
)

// ParsePrice decodes a trade-price frame. It returns false when the frame
// belongs to another feed, is truncated, or carries a non-numeric price.
func ParsePrice(raw string) (model.PriceTick, bool) {
	frame, ok := Split(raw)
	if !ok || frame.Encrypted || frame.FeedID != model.FeedPrice {
		return model.PriceTick{}, false
	}
	if len(frame.Fields) < priceMinFields {
		return model.PriceTick{}, false
	}

	price, ok := toFloat(frame.Fields[priceFieldPrice])
	if !ok {
		return model.PriceTick{}, false
	}

	// Secondary numeric fields default to zero rather than invalidating
	// the frame; only the price itself is load-bearing.
	change, _ := toFloat(frame.Fields[priceFieldChange])
	rate, _ := toFloat(frame.Fields[priceFieldChangeRate])
	value, _ := toInt(frame.Fields[priceFieldTradeValue])

	return model.PriceTick{
		Symbol:     normalizeSymbol(frame.Fields[priceFieldSymbol]),
		Price:      price,
		Change:     change,
		ChangeSign: frame.Fields[priceFieldChangeSign],
		ChangeRate: rate,
		TradeValue: value,
		Time:       normalizeTime(frame.Fields[priceFieldTime]),
	}, true
}
