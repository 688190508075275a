package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const (
	inquirePricePath = "/uapi/domestic-stock/v1/quotations/inquire-price"
	inquirePriceTrID = "FHKST01010100"

	dailyPricePath = "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice"
	dailyPriceTrID = "FHKST03010100"
)

// PriceSnapshot is a point-in-time quote from the REST API, used as the
// closed-market fallback when no live tick is cached.
type PriceSnapshot struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"current_price"`
	Change     float64 `json:"change"`
	ChangeRate float64 `json:"change_rate"`
	Volume     int64   `json:"volume"`
}

// InquirePrice fetches the current price snapshot for a stock.
func (c *Client) InquirePrice(ctx context.Context, symbol string) (PriceSnapshot, error) {
	query := url.Values{
		"FID_COND_MRKT_DIV_CODE": {"J"},
		"FID_INPUT_ISCD":         {symbol},
	}

	var resp struct {
		Output struct {
			Price      string `json:"stck_prpr"`
			Change     string `json:"prdy_vrss"`
			ChangeRate string `json:"prdy_ctrt"`
			Volume     string `json:"acml_vol"`
		} `json:"output"`
	}
	if err := c.get(ctx, inquirePricePath, inquirePriceTrID, query, &resp); err != nil {
		return PriceSnapshot{}, fmt.Errorf("inquire price %s: %w", symbol, err)
	}

	price, err := strconv.ParseFloat(resp.Output.Price, 64)
	if err != nil {
		return PriceSnapshot{}, fmt.Errorf("inquire price %s: bad stck_prpr %q", symbol, resp.Output.Price)
	}

	change, _ := strconv.ParseFloat(resp.Output.Change, 64)
	rate, _ := strconv.ParseFloat(resp.Output.ChangeRate, 64)
	volume, _ := strconv.ParseInt(resp.Output.Volume, 10, 64)

	return PriceSnapshot{
		Symbol:     symbol,
		Price:      price,
		Change:     change,
		ChangeRate: rate,
		Volume:     volume,
	}, nil
}

// DailyPrice is one normalized daily OHLCV row.
type DailyPrice struct {
	Date   string  `json:"date"` // YYYYMMDD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// DailyPrices fetches the daily price series for a stock. period is the
// venue's period division code: "D" daily, "W" weekly, "M" monthly.
func (c *Client) DailyPrices(ctx context.Context, symbol, period string) ([]DailyPrice, error) {
	if period == "" {
		period = "D"
	}
	query := url.Values{
		"FID_COND_MRKT_DIV_CODE": {"J"},
		"FID_INPUT_ISCD":         {symbol},
		"FID_PERIOD_DIV_CODE":    {period},
		"FID_ORG_ADJ_PRC":        {"0"},
	}

	var resp struct {
		Output2 []struct {
			Date   string `json:"stck_bsop_date"`
			Open   string `json:"stck_oprc"`
			High   string `json:"stck_hgpr"`
			Low    string `json:"stck_lwpr"`
			Close  string `json:"stck_clpr"`
			Volume string `json:"acml_vol"`
		} `json:"output2"`
	}
	if err := c.get(ctx, dailyPricePath, dailyPriceTrID, query, &resp); err != nil {
		return nil, fmt.Errorf("daily prices %s: %w", symbol, err)
	}

	rows := make([]DailyPrice, 0, len(resp.Output2))
	for _, raw := range resp.Output2 {
		open, err1 := strconv.ParseFloat(raw.Open, 64)
		high, err2 := strconv.ParseFloat(raw.High, 64)
		low, err3 := strconv.ParseFloat(raw.Low, 64)
		cls, err4 := strconv.ParseFloat(raw.Close, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			// Rows with blank prices show up around holidays; skip them.
			continue
		}
		volume, _ := strconv.ParseInt(raw.Volume, 10, 64)

		rows = append(rows, DailyPrice{
			Date:   raw.Date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: volume,
		})
	}
	return rows, nil
}
