package networks

import (
	"os"
	"strings"
)

var Pubnet Network = NewPubnet()

type pubnet struct{}

func NewPubnet() *pubnet {
	return &pubnet{}
}

func (self *pubnet) GetName() string {
	return "pubnet"
}

func (self *pubnet) GetAlternativeNames() []string {
	return []string{"public", "mainnet"}
}

func (self *pubnet) GetNetworkPassphrase() string {
	return "Public Global Stellar Network ; September 2015"
}

func (self *pubnet) GetNativeAssetCode() string {
	return "XLM"
}

func (self *pubnet) GetNativeContractID() string {
	return "CAS3J7GYLGXMF6TDJBBYYSE3HQ6BBSMLNUQ34T6TZMYMW2EVH34XOWMA"
}

func (self *pubnet) GetHorizonURL() string {
	custom := strings.Trim(os.Getenv(self.GetNodeVariableName()), " ")
	if custom != "" {
		return custom
	}
	return "https://horizon.stellar.org"
}

func (self *pubnet) GetIndexerURL() string {
	return "https://indexer.astrolabe.tools/api/v1"
}

func (self *pubnet) GetSearchIndexURL() string {
	return "https://api.stellar.expert/explorer/public"
}

func (self *pubnet) GetScannerURL() string {
	return "https://indexer.astrolabe.tools/api/v1"
}

func (self *pubnet) GetAssetListURLs() []string {
	return []string{
		"https://api.stellar.expert/explorer/public/asset-list/top50",
		"https://www.soroswap.finance/api/tokens",
		"https://lobstr.co/api/v1/sep/assets/curated.json",
	}
}

func (self *pubnet) IsVerificationSupported() bool {
	return true
}

func (self *pubnet) GetNodeVariableName() string {
	return "STELLAR_PUBNET_HORIZON"
}
