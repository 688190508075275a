package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	orderCashPath   = "/uapi/domestic-stock/v1/trading/order-cash"
	orderCancelPath = "/uapi/domestic-stock/v1/trading/order-rvsecncl"

	// KRX branch code used on cancel requests.
	defaultBranchCode = "00950"
)

// Side is the order direction.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// OrderType selects limit or market execution.
type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
)

// OrderConfig holds the account and the environment-specific transaction
// ids (paper and production use different tr_id values).
type OrderConfig struct {
	AccountNo  string // "CANO-ACNT_PRDT_CD"
	BuyTrID    string
	SellTrID   string
	CancelTrID string
}

func (c OrderConfig) split() (cano, prdtCd string, err error) {
	cano, prdtCd, ok := strings.Cut(c.AccountNo, "-")
	if !ok {
		return "", "", fmt.Errorf("account_no %q must look like CANO-PRDT", c.AccountNo)
	}
	return cano, prdtCd, nil
}

// OrderRequest describes one cash order.
type OrderRequest struct {
	Symbol string
	Side   Side
	Qty    int64
	Price  int64 // ignored for market orders
	Type   OrderType
}

// PlaceOrder submits a cash order and returns the venue's order number.
func (c *Client) PlaceOrder(ctx context.Context, cfg OrderConfig, req OrderRequest) (string, error) {
	cano, prdtCd, err := cfg.split()
	if err != nil {
		return "", err
	}

	trID := cfg.BuyTrID
	if req.Side == Sell {
		trID = cfg.SellTrID
	}

	ordDvsn := "00" // limit
	price := req.Price
	if req.Type == Market {
		ordDvsn = "01"
		price = 0
	}

	payload := map[string]string{
		"CANO":         cano,
		"ACNT_PRDT_CD": prdtCd,
		"PDNO":         req.Symbol,
		"ORD_DVSN":     ordDvsn,
		"ORD_QTY":      strconv.FormatInt(req.Qty, 10),
		"ORD_UNPR":     strconv.FormatInt(price, 10),
	}

	var resp struct {
		Output struct {
			OrderNo string `json:"ODNO"`
		} `json:"output"`
	}
	if err := c.post(ctx, orderCashPath, trID, payload, &resp); err != nil {
		return "", fmt.Errorf("place %s %s x%d: %w", req.Side, req.Symbol, req.Qty, err)
	}
	if resp.Output.OrderNo == "" {
		return "", fmt.Errorf("place %s %s: no order number in response", req.Side, req.Symbol)
	}

	return resp.Output.OrderNo, nil
}

// CancelOrder cancels an existing order. With total=true the remaining
// quantity is cancelled regardless of qty.
func (c *Client) CancelOrder(ctx context.Context, cfg OrderConfig, orderNo string, qty int64, total bool) error {
	cano, prdtCd, err := cfg.split()
	if err != nil {
		return err
	}

	qtyStr := strconv.FormatInt(qty, 10)
	allYN := "N"
	if total {
		qtyStr = "0"
		allYN = "Y"
	}

	payload := map[string]string{
		"CANO":               cano,
		"ACNT_PRDT_CD":       prdtCd,
		"KRX_FWDG_ORD_ORGNO": defaultBranchCode,
		"ORGN_ODNO":          orderNo,
		"ORD_DVSN":           "00",
		"RVSE_CNCL_DVSN_CD":  "02", // 01 amend, 02 cancel
		"ORD_QTY":            qtyStr,
		"ORD_UNPR":           "0",
		"QTY_ALL_ORD_YN":     allYN,
	}

	if err := c.post(ctx, orderCancelPath, cfg.CancelTrID, payload, nil); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderNo, err)
	}
	return nil
}
