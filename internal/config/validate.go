package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *StreamerConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.KIS.AppKey == "" {
		return errors.New("kis.app_key is required")
	}
	if c.KIS.AppSecret == "" {
		return errors.New("kis.app_secret is required")
	}
	if c.KIS.CustType != "P" && c.KIS.CustType != "B" {
		return fmt.Errorf("kis.cust_type must be P or B, got %q", c.KIS.CustType)
	}

	if c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}

	if c.Database.Host != "" {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Stream.BufferSize < 1 {
		return errors.New("stream.buffer_size must be >= 1")
	}
	if c.Fetch.PollInterval <= 0 {
		return errors.New("fetch.poll_interval must be > 0")
	}

	if c.Trading.AccountNo != "" && !strings.Contains(c.Trading.AccountNo, "-") {
		return fmt.Errorf("trading.account_no must look like CANO-PRDT, got %q", c.Trading.AccountNo)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 || db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns must be between 0 and max_conns", prefix)
	}
	return nil
}
