package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type GenericNetworkConfig struct {
	Name                  string   `json:"name"`
	AlternativeNames      []string `json:"alternative_names"`
	NetworkPassphrase     string   `json:"network_passphrase"`
	NativeAssetCode       string   `json:"native_asset_code"`
	NativeContractID      string   `json:"native_contract_id"`
	HorizonURL            string   `json:"horizon_url"`
	IndexerURL            string   `json:"indexer_url"`
	SearchIndexURL        string   `json:"search_index_url"`
	ScannerURL            string   `json:"scanner_url"`
	AssetListURLs         []string `json:"asset_list_urls"`
	VerificationSupported bool     `json:"verification_supported"`
	NodeVariableName      string   `json:"node_variable_name"`
}

// GenericNetwork is a config-driven Network implementation used for custom
// networks added by the user (private networks, local quickstart nodes).
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	return &GenericNetwork{config: config}
}

func NewNetworkFromJSON(content []byte) (*GenericNetwork, error) {
	config := GenericNetworkConfig{}
	err := json.Unmarshal(content, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("network config is missing \"name\"")
	}
	if config.NetworkPassphrase == "" {
		return nil, fmt.Errorf("network config is missing \"network_passphrase\"")
	}
	if config.NativeAssetCode == "" {
		config.NativeAssetCode = "XLM"
	}
	return NewGenericNetwork(config), nil
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(gn.config, "", "  ")
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNetworkPassphrase() string {
	return gn.config.NetworkPassphrase
}

func (gn *GenericNetwork) GetNativeAssetCode() string {
	return gn.config.NativeAssetCode
}

func (gn *GenericNetwork) GetNativeContractID() string {
	return gn.config.NativeContractID
}

func (gn *GenericNetwork) GetHorizonURL() string {
	if gn.config.NodeVariableName != "" {
		custom := strings.Trim(os.Getenv(gn.config.NodeVariableName), " ")
		if custom != "" {
			return custom
		}
	}
	return gn.config.HorizonURL
}

func (gn *GenericNetwork) GetIndexerURL() string {
	return gn.config.IndexerURL
}

func (gn *GenericNetwork) GetSearchIndexURL() string {
	return gn.config.SearchIndexURL
}

func (gn *GenericNetwork) GetScannerURL() string {
	return gn.config.ScannerURL
}

func (gn *GenericNetwork) GetAssetListURLs() []string {
	return gn.config.AssetListURLs
}

func (gn *GenericNetwork) IsVerificationSupported() bool {
	return gn.config.VerificationSupported
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}
