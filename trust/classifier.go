// Package trust partitions resolved assets into verified and unverified
// tiers against the aggregated allow-list identifier set. Classification is
// pure and synchronous: a record's tier is derived per call and can change
// between calls as allow-lists refresh.
package trust

import (
	"github.com/astrolabe-cli/astrolabe/common"
)

// Set is a membership set of trusted identifiers (issuers and contract ids).
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := Set{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s Set) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

func (s Set) Has(id string) bool {
	_, found := s[id]
	return found
}

// Partition splits records into verified and unverified, preserving input
// order within each half. A record is verified iff any of its trust keys is
// in trusted; the native asset is always verified regardless of list state.
func Partition(records []common.Asset, trusted Set) (verified, unverified []common.Asset) {
	verified = []common.Asset{}
	unverified = []common.Asset{}
	for _, rec := range records {
		if IsVerified(rec, trusted) {
			verified = append(verified, rec)
		} else {
			unverified = append(unverified, rec)
		}
	}
	return verified, unverified
}

// IsVerified reports the tier of a single record against trusted.
func IsVerified(rec common.Asset, trusted Set) bool {
	if rec.Native {
		return true
	}
	for _, key := range rec.TrustKeys() {
		if trusted.Has(key) {
			return true
		}
	}
	return false
}
