package common

import (
	"fmt"
	"strings"
)

// VerdictType is the security scan service's classification of an asset.
type VerdictType string

const (
	VerdictBenign    VerdictType = "Benign"
	VerdictWarning   VerdictType = "Warning"
	VerdictMalicious VerdictType = "Malicious"
	VerdictUnknown   VerdictType = "Unknown"
)

// Verdict is a third-party security classification attached to an Asset
// after it has been scanned. A nil Verdict on an Asset means "not yet
// scanned", not "safe".
type Verdict struct {
	ResultType     VerdictType `json:"result_type"`
	Features       []string    `json:"features"`
	MaliciousScore float64     `json:"malicious_score"`
}

func (v *Verdict) IsMalicious() bool {
	return v != nil && v.ResultType == VerdictMalicious
}

func (v *Verdict) IsSuspicious() bool {
	return v != nil && (v.ResultType == VerdictMalicious || v.ResultType == VerdictWarning)
}

// Asset is the canonical record a query resolves to. Classic assets are
// identified by (Code, Issuer); contract-based assets by ContractID. A SAC
// wrapper over a classic asset carries the classic Issuer identity so that
// trust classification and balance matching work on the issuer, never on
// the wrapper's contract id.
type Asset struct {
	Code       string   `json:"code"`
	Issuer     string   `json:"issuer,omitempty"`
	ContractID string   `json:"contract_id,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	IconURL    string   `json:"icon_url,omitempty"`
	Name       string   `json:"name,omitempty"`
	Native     bool     `json:"native"`
	Verdict    *Verdict `json:"verdict,omitempty"`
}

// ID returns the canonical identifier used for scan requests and verdict
// matching: CODE-ISSUER for classic assets, the contract id when no issuer
// is known, and the bare code for the native asset.
func (a Asset) ID() string {
	if a.Native {
		return a.Code
	}
	if a.Issuer != "" {
		return fmt.Sprintf("%s-%s", a.Code, a.Issuer)
	}
	return a.ContractID
}

// TrustKeys returns every identifier under which the asset may appear on an
// allow-list. For a SAC wrapper both the classic issuer and the wrapper
// contract id are returned.
func (a Asset) TrustKeys() []string {
	keys := []string{}
	if a.Issuer != "" {
		keys = append(keys, a.Issuer)
	}
	if a.ContractID != "" {
		keys = append(keys, a.ContractID)
	}
	return keys
}

// ParseSACName splits the on-chain name of a Stellar Asset Contract,
// "CODE:ISSUER", into its classic identity. ok is false when the name does
// not have that shape (the contract is a plain token, not a SAC wrapper).
func ParseSACName(name string) (code, issuer string, ok bool) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	code = strings.TrimSpace(parts[0])
	issuer = strings.TrimSpace(parts[1])
	if code == "" || !IsAccountID(issuer) {
		return "", "", false
	}
	return code, issuer, true
}
