package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL        = "https://openapivts.koreainvestment.com:29443"
	DefaultWSURL          = "ws://ops.koreainvestment.com:31000"
	DefaultCustType       = "P"
	DefaultAPITimeout     = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultApprovalTTL    = 12 * time.Hour
	DefaultRedisAddr      = "localhost:6379"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultSendPacing     = 100 * time.Millisecond
	DefaultWriteTimeout   = 5 * time.Second
	DefaultBufferSize     = 1000
	DefaultPollInterval   = 200 * time.Millisecond
	DefaultFetchTimeout   = 10 * time.Second
	DefaultMarketTimezone = "Asia/Seoul"
	DefaultMarketOpen     = "09:00"
	DefaultMarketClose    = "15:30"
	DefaultBuyTrID        = "VTTC0802U"
	DefaultSellTrID       = "VTTC0801U"
	DefaultCancelTrID     = "VTTC0803U"
)

func (c *StreamerConfig) applyDefaults() {
	if c.KIS.BaseURL == "" {
		c.KIS.BaseURL = DefaultBaseURL
	}
	if c.KIS.WSURL == "" {
		c.KIS.WSURL = DefaultWSURL
	}
	if c.KIS.CustType == "" {
		c.KIS.CustType = DefaultCustType
	}
	if c.KIS.Timeout == 0 {
		c.KIS.Timeout = DefaultAPITimeout
	}
	if c.KIS.MaxRetries == 0 {
		c.KIS.MaxRetries = DefaultMaxRetries
	}
	if c.KIS.ApprovalTTL == 0 {
		c.KIS.ApprovalTTL = DefaultApprovalTTL
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}

	if c.Database.Host != "" {
		if c.Database.Port == 0 {
			c.Database.Port = DefaultDBPort
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = DefaultDBSSLMode
		}
		if c.Database.MaxConns == 0 {
			c.Database.MaxConns = DefaultMaxConns
		}
		if c.Database.MinConns == 0 {
			c.Database.MinConns = DefaultMinConns
		}
	}

	if c.Stream.SendPacing == 0 {
		c.Stream.SendPacing = DefaultSendPacing
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultBufferSize
	}

	if c.Fetch.PollInterval == 0 {
		c.Fetch.PollInterval = DefaultPollInterval
	}
	if c.Fetch.DefaultTimeout == 0 {
		c.Fetch.DefaultTimeout = DefaultFetchTimeout
	}

	if c.Market.Timezone == "" {
		c.Market.Timezone = DefaultMarketTimezone
	}
	if c.Market.Open == "" {
		c.Market.Open = DefaultMarketOpen
	}
	if c.Market.Close == "" {
		c.Market.Close = DefaultMarketClose
	}

	if c.Trading.BuyTrID == "" {
		c.Trading.BuyTrID = DefaultBuyTrID
	}
	if c.Trading.SellTrID == "" {
		c.Trading.SellTrID = DefaultSellTrID
	}
	if c.Trading.CancelTrID == "" {
		c.Trading.CancelTrID = DefaultCancelTrID
	}
}
