package parser

import (
	"strconv"
	"strings"
	"testing"

	"github.com/Hybrid05-team03/auto-stock-trading-system-backend/internal/model"
)

// priceFrame builds a minimal valid H0STCNT0 frame.
func priceFrame(symbol, hhmmss, price, sign, change, rate, tradeValue string) string {
	fields := make([]string, 15)
	fields[0] = symbol
	fields[1] = hhmmss
	fields[2] = price
	fields[3] = sign
	fields[4] = change
	fields[5] = rate
	fields[14] = tradeValue
	return "0|H0STCNT0|001|" + strings.Join(fields, "^")
}

func TestSplit(t *testing.T) {
	frame, ok := Split("0|H0STCNT0|001|005930^095959^71200")
	if !ok {
		t.Fatal("Split failed on valid frame")
	}
	if frame.FeedID != "H0STCNT0" {
		t.Errorf("FeedID = %s, want H0STCNT0", frame.FeedID)
	}
	if frame.Encrypted {
		t.Error("Encrypted = true, want false")
	}
	if len(frame.Fields) != 3 {
		t.Errorf("len(Fields) = %d, want 3", len(frame.Fields))
	}

	if _, ok := Split(`{"header":{"tr_id":"PINGPONG"}}`); ok {
		t.Error("Split accepted a JSON control frame")
	}
	if _, ok := Split(""); ok {
		t.Error("Split accepted an empty frame")
	}
	if _, ok := Split("0|H0STCNT0|001"); ok {
		t.Error("Split accepted a frame with no body")
	}
}

func TestHeader(t *testing.T) {
	feedID, key, ok := Header("0|H0STASP0|001|A005930^095959^71200")
	if !ok {
		t.Fatal("Header failed on valid frame")
	}
	if feedID != "H0STASP0" {
		t.Errorf("feedID = %s, want H0STASP0", feedID)
	}
	if key != "005930" {
		t.Errorf("key = %s, want 005930 (A prefix stripped)", key)
	}
}

func TestParsePrice(t *testing.T) {
	raw := priceFrame("005930", "112325", "71200.5", "2", "300", "0.42", "123456789")

	tick, ok := ParsePrice(raw)
	if !ok {
		t.Fatal("ParsePrice failed on valid frame")
	}
	if tick.Symbol != "005930" {
		t.Errorf("Symbol = %s, want 005930", tick.Symbol)
	}
	if tick.Time != "11:23:25" {
		t.Errorf("Time = %s, want 11:23:25", tick.Time)
	}
	if tick.ChangeSign != "2" {
		t.Errorf("ChangeSign = %s, want 2", tick.ChangeSign)
	}
	if tick.TradeValue != 123456789 {
		t.Errorf("TradeValue = %d, want 123456789", tick.TradeValue)
	}

	// Numeric fields must round-trip through string formatting.
	if got := strconv.FormatFloat(tick.Price, 'f', -1, 64); got != "71200.5" {
		t.Errorf("Price round-trip = %s, want 71200.5", got)
	}
	if got := strconv.FormatFloat(tick.ChangeRate, 'f', -1, 64); got != "0.42" {
		t.Errorf("ChangeRate round-trip = %s, want 0.42", got)
	}
}

func TestParsePrice_WrongFeedID(t *testing.T) {
	raw := strings.Replace(priceFrame("005930", "112325", "71200", "2", "300", "0.42", "1"), "H0STCNT0", "H0STASP0", 1)
	if _, ok := ParsePrice(raw); ok {
		t.Error("ParsePrice accepted a frame from another feed")
	}
}

func TestParsePrice_ShortBody(t *testing.T) {
	if _, ok := ParsePrice("0|H0STCNT0|001|005930^112325^71200"); ok {
		t.Error("ParsePrice accepted a truncated frame")
	}
}

func TestParsePrice_NonNumericPrice(t *testing.T) {
	raw := priceFrame("005930", "112325", "N/A", "2", "300", "0.42", "1")
	if _, ok := ParsePrice(raw); ok {
		t.Error("ParsePrice accepted a non-numeric price")
	}
}

func TestParsePrice_Encrypted(t *testing.T) {
	raw := "1" + priceFrame("005930", "112325", "71200", "2", "300", "0.42", "1")[1:]
	if _, ok := ParsePrice(raw); ok {
		t.Error("ParsePrice accepted an encrypted frame")
	}
}

func TestParseQuote(t *testing.T) {
	tick, ok := ParseQuote("0|H0STASP0|001|005930^095959^71300")
	if !ok {
		t.Fatal("ParseQuote failed on valid frame")
	}
	if tick.Price != 71300 {
		t.Errorf("Price = %v, want 71300", tick.Price)
	}
	if tick.Time != "09:59:59" {
		t.Errorf("Time = %s, want 09:59:59", tick.Time)
	}

	if _, ok := ParseQuote("0|H0STASP0|001|005930^095959"); ok {
		t.Error("ParseQuote accepted a short body")
	}
}

func TestParseIndex(t *testing.T) {
	fields := make([]string, 30)
	fields[0] = "0001"
	fields[1] = "140002"
	fields[2] = "2601.35"
	fields[3] = "2"
	fields[4] = "12.41"
	fields[5] = "0.48"
	fields[6] = "450123"
	fields[7] = "9876543"
	fields[10] = "2590.10"
	fields[11] = "2605.00"
	fields[12] = "2588.70"
	fields[22] = "2"
	fields[23] = "512"
	fields[24] = "101"
	fields[25] = "301"
	fields[26] = "1"
	raw := "0|H0UPCNT0|001|" + strings.Join(fields, "^")

	tick, ok := ParseIndex(raw)
	if !ok {
		t.Fatal("ParseIndex failed on valid frame")
	}
	if tick.Name != "코스피" {
		t.Errorf("Name = %s, want 코스피", tick.Name)
	}
	if tick.Level != 2601.35 {
		t.Errorf("Level = %v, want 2601.35", tick.Level)
	}
	if tick.UpCount != 512 || tick.DownCount != 301 {
		t.Errorf("breadth = %d up / %d down, want 512/301", tick.UpCount, tick.DownCount)
	}
	if tick.Time != "14:00:02" {
		t.Errorf("Time = %s, want 14:00:02", tick.Time)
	}
}

func TestParseIndex_RejectsShortFrame(t *testing.T) {
	// 29 fields is one short of the venue layout; must reject, not guess.
	fields := make([]string, 29)
	fields[0] = "0001"
	fields[1] = "140002"
	fields[2] = "2601.35"
	raw := "0|H0UPCNT0|001|" + strings.Join(fields, "^")

	if _, ok := ParseIndex(raw); ok {
		t.Error("ParseIndex accepted a frame shorter than the expected field count")
	}
}

func TestParseExec(t *testing.T) {
	fields := make([]string, 13)
	fields[2] = "093010"
	fields[5] = "0000117057"
	fields[10] = model.ExecFilled
	fields[11] = "71200"
	fields[12] = "10"
	raw := "0|H0STCNI0|001|" + strings.Join(fields, "^")

	ev, ok := ParseExec(raw)
	if !ok {
		t.Fatal("ParseExec failed on valid frame")
	}
	if ev.OrderNo != "0000117057" {
		t.Errorf("OrderNo = %s, want 0000117057", ev.OrderNo)
	}
	if !ev.Filled() {
		t.Error("Filled() = false, want true")
	}
	if ev.Quantity != 10 {
		t.Errorf("Quantity = %d, want 10", ev.Quantity)
	}
}

func TestControl_Heartbeat(t *testing.T) {
	raw := []byte(`{"header":{"tr_id":"PINGPONG","datetime":"20240102093000"}}`)
	ctrl, ok := Control(raw)
	if !ok {
		t.Fatal("Control did not recognize a heartbeat")
	}
	if ctrl.Type != ControlHeartbeat {
		t.Errorf("Type = %v, want ControlHeartbeat", ctrl.Type)
	}
}

func TestControl_SubscribeAck(t *testing.T) {
	raw := []byte(`{"header":{"tr_id":"H0STCNT0"},"body":{"rt_cd":"0","msg_cd":"OPSP0000","msg1":"SUBSCRIBE SUCCESS"}}`)
	ctrl, ok := Control(raw)
	if !ok {
		t.Fatal("Control did not recognize a subscribe ack")
	}
	if ctrl.Type != ControlAck {
		t.Errorf("Type = %v, want ControlAck", ctrl.Type)
	}
	if ctrl.Code != "OPSP0000" {
		t.Errorf("Code = %s, want OPSP0000", ctrl.Code)
	}
}

func TestControl_IgnoresDataFrames(t *testing.T) {
	if _, ok := Control([]byte("0|H0STCNT0|001|005930^095959^71200")); ok {
		t.Error("Control claimed a positional data frame")
	}
}
