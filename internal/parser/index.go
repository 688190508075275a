package parser

import (
	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

// H0UPCNT0 positional offsets. The venue pushes ~30 fields per frame;
// frames shorter than indexMinFields are rejected outright instead of
// guessing at a truncated layout.
const (
	indexFieldCode       = 0
	indexFieldTime       = 1
	indexFieldLevel      = 2
	indexFieldChangeSign = 3
	indexFieldChange     = 4
	indexFieldChangeRate = 5
	indexFieldVolume     = 6
	indexFieldValue      = 7
	indexFieldOpen       = 10
	indexFieldHigh       = 11
	indexFieldLow        = 12
	indexFieldUpperLimit = 22
	indexFieldUp         = 23
	indexFieldFlat       = 24
	indexFieldDown       = 25
	indexFieldLowerLimit = 26

	indexMinFields = 30
)

// indexNames maps the venue's sector codes to display names.
var indexNames = map[string]string{
	"0001": "코스피",
	"1001": "코스닥",
}

// ParseIndex decodes a sector-index frame.
func ParseIndex(raw string) (model.IndexTick, bool) {
	frame, ok := Split(raw)
	if !ok || frame.Encrypted || frame.FeedID != model.FeedIndex {
		return model.IndexTick{}, false
	}
	if len(frame.Fields) < indexMinFields {
		return model.IndexTick{}, false
	}

	level, ok := toFloat(frame.Fields[indexFieldLevel])
	if !ok {
		return model.IndexTick{}, false
	}

	code := frame.Fields[indexFieldCode]
	name, known := indexNames[code]
	if !known {
		name = code
	}

	change, _ := toFloat(frame.Fields[indexFieldChange])
	rate, _ := toFloat(frame.Fields[indexFieldChangeRate])
	volume, _ := toInt(frame.Fields[indexFieldVolume])
	value, _ := toInt(frame.Fields[indexFieldValue])
	open, _ := toFloat(frame.Fields[indexFieldOpen])
	high, _ := toFloat(frame.Fields[indexFieldHigh])
	low, _ := toFloat(frame.Fields[indexFieldLow])

	return model.IndexTick{
		Code:            code,
		Name:            name,
		Level:           level,
		ChangeSign:      frame.Fields[indexFieldChangeSign],
		Change:          change,
		ChangeRate:      rate,
		Volume:          volume,
		Value:           value,
		Open:            open,
		High:            high,
		Low:             low,
		UpperLimitCount: countField(frame.Fields[indexFieldUpperLimit]),
		UpCount:         countField(frame.Fields[indexFieldUp]),
		FlatCount:       countField(frame.Fields[indexFieldFlat]),
		DownCount:       countField(frame.Fields[indexFieldDown]),
		LowerLimitCount: countField(frame.Fields[indexFieldLowerLimit]),
		Time:            normalizeTime(frame.Fields[indexFieldTime]),
	}, true
}

func countField(s string) int {
	v, _ := toInt(s)
	return int(v)
}
