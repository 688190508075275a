package parser

import (
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

const quoteMinFields = 3

// ParseQuote decodes a best-quote frame (symbol, time, best price).
func ParseQuote(raw string) (model.QuoteTick, bool) {
	frame, ok := Split(raw)
	if !ok || frame.Encrypted || frame.FeedID != model.FeedQuote {
		return model.QuoteTick{}, false
	}
	if len(frame.Fields) < quoteMinFields {
		return model.QuoteTick{}, false
	}

	price, ok := toFloat(frame.Fields[2])
	if !ok {
		return model.QuoteTick{}, false
	}

	return model.QuoteTick{
		Symbol: normalizeSymbol(frame.Fields[0]),
		Price:  price,
		Time:   normalizeTime(frame.Fields[1]),
	}, true
}
