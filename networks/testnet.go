package networks

import (
	"os"
	"strings"
)

var Testnet Network = NewTestnet()

type testnet struct{}

func NewTestnet() *testnet {
	return &testnet{}
}

func (self *testnet) GetName() string {
	return "testnet"
}

func (self *testnet) GetAlternativeNames() []string {
	return []string{"test"}
}

func (self *testnet) GetNetworkPassphrase() string {
	return "Test SDF Network ; September 2015"
}

func (self *testnet) GetNativeAssetCode() string {
	return "XLM"
}

func (self *testnet) GetNativeContractID() string {
	return "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC"
}

func (self *testnet) GetHorizonURL() string {
	custom := strings.Trim(os.Getenv(self.GetNodeVariableName()), " ")
	if custom != "" {
		return custom
	}
	return "https://horizon-testnet.stellar.org"
}

func (self *testnet) GetIndexerURL() string {
	return "https://indexer-testnet.astrolabe.tools/api/v1"
}

func (self *testnet) GetSearchIndexURL() string {
	return "https://api.stellar.expert/explorer/testnet"
}

func (self *testnet) GetScannerURL() string {
	return "https://indexer-testnet.astrolabe.tools/api/v1"
}

func (self *testnet) GetAssetListURLs() []string {
	return []string{}
}

func (self *testnet) IsVerificationSupported() bool {
	return false
}

func (self *testnet) GetNodeVariableName() string {
	return "STELLAR_TESTNET_HORIZON"
}
