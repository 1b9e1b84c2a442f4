package assetlist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/astrolabe-cli/astrolabe/common"
)

// List is one curated allow-list document as served by a list provider.
type List struct {
	Name     string  `json:"name"`
	Provider string  `json:"provider"`
	Network  string  `json:"network"`
	Version  string  `json:"version"`
	Assets   []Entry `json:"assets"`
}

// Entry is a single asset on an allow-list. A classic asset carries Issuer,
// a contract token carries ContractID; SAC wrappers may carry both.
type Entry struct {
	ContractID string `json:"contract,omitempty"`
	Issuer     string `json:"issuer,omitempty"`
	Code       string `json:"code"`
	Domain     string `json:"domain,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Decimals   int    `json:"decimals,omitempty"`
}

// ValidationError records one discrete schema violation with enough context
// to identify the offending list and entry.
type ValidationError struct {
	ListURL string
	Entry   string // entry identifier when the violation is entry-level
	Reason  string
}

func (e ValidationError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("list %s, entry %s: %s", e.ListURL, e.Entry, e.Reason)
	}
	return fmt.Sprintf("list %s: %s", e.ListURL, e.Reason)
}

// ParseList validates raw against the list schema.
//
// A document-level violation (not JSON, unknown top-level key, missing
// required key) invalidates the whole list: the returned List is nil and a
// single error describes the violation. An entry-level violation only drops
// that entry, recording one error per dropped entry; the rest of the list
// stays usable.
func ParseList(raw []byte, listURL string) (*List, []ValidationError) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	list := &List{}
	if err := dec.Decode(list); err != nil {
		return nil, []ValidationError{{
			ListURL: listURL,
			Reason:  fmt.Sprintf("document does not conform to the list schema: %s", err),
		}}
	}

	var docErrs []ValidationError
	requireTop := func(field, value string) {
		if value == "" {
			docErrs = append(docErrs, ValidationError{
				ListURL: listURL,
				Reason:  fmt.Sprintf("missing required key %q", field),
			})
		}
	}
	requireTop("name", list.Name)
	requireTop("provider", list.Provider)
	requireTop("network", list.Network)
	requireTop("version", list.Version)
	if list.Assets == nil {
		docErrs = append(docErrs, ValidationError{
			ListURL: listURL,
			Reason:  "missing required key \"assets\"",
		})
	}
	if len(docErrs) > 0 {
		return nil, docErrs
	}

	var entryErrs []ValidationError
	valid := make([]Entry, 0, len(list.Assets))
	for i, entry := range list.Assets {
		if reason := validateEntry(entry); reason != "" {
			entryErrs = append(entryErrs, ValidationError{
				ListURL: listURL,
				Entry:   entryID(entry, i),
				Reason:  reason,
			})
			continue
		}
		valid = append(valid, entry)
	}
	list.Assets = valid
	return list, entryErrs
}

func validateEntry(e Entry) string {
	if e.Code == "" {
		return "missing required key \"code\""
	}
	if e.ContractID == "" && e.Issuer == "" {
		return "entry has neither \"contract\" nor \"issuer\""
	}
	if e.ContractID != "" && !common.IsContractID(e.ContractID) {
		return fmt.Sprintf("%q is not a valid contract id", e.ContractID)
	}
	if e.Issuer != "" && !common.IsAccountID(e.Issuer) {
		return fmt.Sprintf("%q is not a valid issuer id", e.Issuer)
	}
	if e.Decimals < 0 {
		return fmt.Sprintf("decimals must not be negative, got %d", e.Decimals)
	}
	return ""
}

func entryID(e Entry, index int) string {
	switch {
	case e.ContractID != "":
		return e.ContractID
	case e.Code != "" && e.Issuer != "":
		return fmt.Sprintf("%s-%s", e.Code, e.Issuer)
	default:
		return fmt.Sprintf("#%d", index)
	}
}
