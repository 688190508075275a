// Package model defines the tick record types produced by the frame
// parsers and the closed set of subscription kinds that maps each kind to
// its wire feed id, cache key prefix, and cache TTL.
package model
