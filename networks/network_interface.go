package networks

// Network describes one Stellar network the wallet can operate on together
// with the service endpoints the asset pipeline consumes on it.
type Network interface {
	GetName() string
	GetAlternativeNames() []string
	GetNetworkPassphrase() string

	GetNativeAssetCode() string
	// GetNativeContractID returns the contract id of the native asset's
	// Stellar Asset Contract on this network. The native asset is always
	// trusted regardless of allow-list state.
	GetNativeContractID() string

	GetHorizonURL() string
	// GetIndexerURL is the base URL of the wallet's indexer API, which
	// serves contract token metadata and SAC detection.
	GetIndexerURL() string
	GetSearchIndexURL() string
	GetScannerURL() string

	// GetAssetListURLs returns the curated allow-list documents configured
	// for this network, in fetch order.
	GetAssetListURLs() []string

	// IsVerificationSupported reports whether trust classification against
	// allow-lists applies on this network. On networks without curated
	// lists every result is shown as unverified.
	IsVerificationSupported() bool

	// GetNodeVariableName names the environment variable that overrides
	// the Horizon endpoint for this network.
	GetNodeVariableName() string
}
