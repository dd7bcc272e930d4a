package id

import (
	"time"

	"github.com/oklog/ulid/v2"
)

/**
 * @file: ulid.go
 * @description: time ordered ids for invitation records
 */

// GetUlid returns a monotonic ULID, safe for concurrent use.
func GetUlid() string {
	return ulid.Make().String()
}

// UlidTime extracts the creation time encoded in a ULID string.
func UlidTime(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
