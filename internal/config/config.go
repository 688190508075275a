// Package config loads and validates the streamer configuration.
package config

import "time"

// StreamerConfig is the root configuration for a streamer instance.
type StreamerConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	KIS      KISConfig      `yaml:"kis"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DBConfig       `yaml:"database"`
	Stream   StreamConfig   `yaml:"stream"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Market   MarketConfig   `yaml:"market"`
	Trading  TradingConfig  `yaml:"trading"`
}

// InstanceConfig identifies this streamer.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// KISConfig holds the brokerage API settings and credentials.
type KISConfig struct {
	BaseURL     string        `yaml:"base_url"`
	WSURL       string        `yaml:"ws_url"`
	AppKey      string        `yaml:"app_key"`
	AppSecret   string        `yaml:"app_secret"`
	CustType    string        `yaml:"cust_type"` // "P" personal, "B" corporate
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	ApprovalTTL time.Duration `yaml:"approval_ttl"`
}

// RedisConfig holds the shared key-value store connection.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DBConfig holds the order journal database connection. Optional: with an
// empty host the journal is disabled.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StreamConfig holds connection supervisor settings.
type StreamConfig struct {
	SendPacing   time.Duration `yaml:"send_pacing"` // delay between subscribe frames
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BufferSize   int           `yaml:"buffer_size"`
}

// FetchConfig holds the consumer-facing fetch protocol settings.
type FetchConfig struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	DefaultTimeout time.Duration `yaml:"default_timeout"`
}

// MarketConfig holds the venue session window.
type MarketConfig struct {
	Timezone string `yaml:"timezone"`
	Open     string `yaml:"open"`  // HH:MM
	Close    string `yaml:"close"` // HH:MM
}

// TradingConfig holds order placement settings.
type TradingConfig struct {
	AccountNo  string `yaml:"account_no"` // CANO-ACNT_PRDT_CD, e.g. "50123456-01"
	BuyTrID    string `yaml:"buy_tr_id"`
	SellTrID   string `yaml:"sell_tr_id"`
	CancelTrID string `yaml:"cancel_tr_id"`
	DryRun     bool   `yaml:"dry_run"`
}
