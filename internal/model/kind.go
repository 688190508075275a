package model

import "time"

// Kind identifies which wire schema a subscription follows and doubles as
// the cache key prefix for records of that schema.
type Kind string

const (
	KindPrice Kind = "price"
	KindQuote Kind = "quote"
	KindIndex Kind = "index"
	KindExec  Kind = "exec"
)

// KIS transaction ids for the real-time feeds.
const (
	FeedPrice = "H0STCNT0" // domestic stock trade price
	FeedQuote = "H0STASP0" // domestic stock best quote
	FeedIndex = "H0UPCNT0" // sector index
	FeedExec  = "H0STCNI0" // order fill / amend notifications
)

// kindInfo is the single dispatch table tying a kind to its feed and TTL.
type kindInfo struct {
	feedID string
	ttl    time.Duration
}

var kinds = map[Kind]kindInfo{
	KindPrice: {feedID: FeedPrice, ttl: 60 * time.Second},
	KindQuote: {feedID: FeedQuote, ttl: 60 * time.Second},
	KindIndex: {feedID: FeedIndex, ttl: 5 * time.Minute},
	KindExec:  {feedID: FeedExec, ttl: time.Hour},
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// FeedID returns the default wire feed id for the kind.
func (k Kind) FeedID() string {
	return kinds[k].feedID
}

// TTL returns how long cached records of this kind stay servable.
func (k Kind) TTL() time.Duration {
	return kinds[k].ttl
}

// CacheKey builds the tick cache key for an instrument, e.g. "price:005930".
func (k Kind) CacheKey(instrumentKey string) string {
	return string(k) + ":" + instrumentKey
}

// KindForFeed returns the kind registered for a feed id.
func KindForFeed(feedID string) (Kind, bool) {
	for k, info := range kinds {
		if info.feedID == feedID {
			return k, true
		}
	}
	return "", false
}
