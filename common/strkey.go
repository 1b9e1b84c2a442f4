package common

import "regexp"

var (
	contractIDRe = regexp.MustCompile("^C[A-Z2-7]{55}$")
	accountIDRe  = regexp.MustCompile("^G[A-Z2-7]{55}$")
	scanIDRe     = regexp.MustCompile("C[A-Z2-7]{55}")
)

// IsContractID reports whether str has the shape of a strkey-encoded
// contract id (C..., 56 base32 characters). It checks syntax only, not the
// checksum; ledger lookups reject bad checksums anyway.
func IsContractID(str string) bool {
	return contractIDRe.MatchString(str)
}

// IsAccountID reports whether str has the shape of a strkey-encoded account
// (issuer) id (G..., 56 base32 characters).
func IsAccountID(str string) bool {
	return accountIDRe.MatchString(str)
}

// ScanForContractIDs extracts every contract-id-shaped substring from para.
func ScanForContractIDs(para string) []string {
	result := scanIDRe.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	return result
}
