package parser

import (
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

// H0STCNI0 positional offsets.
const (
	execFieldTime     = 2
	execFieldOrderNo  = 5
	execFieldExecType = 10
	execFieldPrice    = 11
	execFieldQuantity = 12

	execMinFields = 13
)

// ParseExec decodes an order fill / amend notification frame.
func ParseExec(raw string) (model.ExecutionEvent, bool) {
	frame, ok := Split(raw)
	if !ok || frame.Encrypted || frame.FeedID != model.FeedExec {
		return model.ExecutionEvent{}, false
	}
	if len(frame.Fields) < execMinFields {
		return model.ExecutionEvent{}, false
	}

	price, ok := toFloat(frame.Fields[execFieldPrice])
	if !ok {
		return model.ExecutionEvent{}, false
	}
	qty, ok := toInt(frame.Fields[execFieldQuantity])
	if !ok {
		return model.ExecutionEvent{}, false
	}

	return model.ExecutionEvent{
		OrderNo:  frame.Fields[execFieldOrderNo],
		ExecType: frame.Fields[execFieldExecType],
		Price:    price,
		Quantity: qty,
		Time:     normalizeTime(frame.Fields[execFieldTime]),
	}, true
}
