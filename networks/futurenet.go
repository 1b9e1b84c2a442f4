package networks

import (
	"os"
	"strings"
)

var Futurenet Network = NewFuturenet()

type futurenet struct{}

func NewFuturenet() *futurenet {
	return &futurenet{}
}

func (self *futurenet) GetName() string {
	return "futurenet"
}

func (self *futurenet) GetAlternativeNames() []string {
	return []string{"future"}
}

func (self *futurenet) GetNetworkPassphrase() string {
	return "Test SDF Future Network ; October 2022"
}

func (self *futurenet) GetNativeAssetCode() string {
	return "XLM"
}

func (self *futurenet) GetNativeContractID() string {
	return "CB64D3G7SM2RTH6JSGG34DDTFTQ5CFDKVDZJZSODMCX4NJ2HV2KN7OHT"
}

func (self *futurenet) GetHorizonURL() string {
	custom := strings.Trim(os.Getenv(self.GetNodeVariableName()), " ")
	if custom != "" {
		return custom
	}
	return "https://horizon-futurenet.stellar.org"
}

func (self *futurenet) GetIndexerURL() string {
	return "https://indexer-futurenet.astrolabe.tools/api/v1"
}

func (self *futurenet) GetSearchIndexURL() string {
	// stellar.expert does not index futurenet; search falls back to empty.
	return ""
}

func (self *futurenet) GetScannerURL() string {
	return ""
}

func (self *futurenet) GetAssetListURLs() []string {
	return []string{}
}

func (self *futurenet) IsVerificationSupported() bool {
	return false
}

func (self *futurenet) GetNodeVariableName() string {
	return "STELLAR_FUTURENET_HORIZON"
}
