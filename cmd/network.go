package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astrolabe-cli/astrolabe/networks"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--config flag is supported to pass a new network config json filepath OR pass a json string. The json should be in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1", "alternative_name_2"],
		"network_passphrase": "Public Global Stellar Network ; September 2015",
		"native_asset_code": "XLM",
		"native_contract_id": "C...",
		"horizon_url": "https://horizon.stellar.org",
		"indexer_url": "https://indexer.example.com",
		"search_index_url": "https://api.stellar.expert/explorer/public",
		"scanner_url": "https://scanner.example.com",
		"asset_list_urls": ["https://example.com/asset-list.json"],
		"verification_supported": true,
		"node_variable_name": "ASTROLABE_NODE_1"
	}`,
	Run: func(cmd *cobra.Command, args []string) {
		// check if the network config json is passed via --config flag
		config, err := cmd.Flags().GetString("config")
		if err != nil {
			fmt.Printf("Error: %s\n", err)
			return
		}

		var newNetwork *networks.GenericNetwork
		config = strings.TrimSpace(config)
		if config != "" && strings.HasPrefix(config, "{") && strings.HasSuffix(config, "}") {
			newNetwork, err = networks.NewNetworkFromJSON([]byte(config))
			if err != nil {
				fmt.Printf("The provided json is not valid: %s\n", err)
				return
			}
		} else if config != "" {
			// in this case, config is supposed to be a path to a json file
			jsonFile, err := os.Open(config)
			if err != nil {
				fmt.Printf("Couldn't open the provided json file: %s\n", err)
				return
			}
			defer jsonFile.Close()

			jsonBytes, err := io.ReadAll(jsonFile)
			if err != nil {
				fmt.Printf("Couldn't read the provided json file: %s\n", err)
				return
			}
			newNetwork, err = networks.NewNetworkFromJSON(jsonBytes)
			if err != nil {
				fmt.Printf("The provided json is not a valid network config: %s\n", err)
				return
			}
		} else {
			fmt.Printf("No network config provided. Pass one with --config.\n")
			return
		}

		allNames := []string{newNetwork.GetName()}
		allNames = append(allNames, newNetwork.GetAlternativeNames()...)

		var willReplace bool
		for _, name := range allNames {
			_, err = networks.GetNetwork(name)
			if err == nil && !NetworkForce {
				fmt.Printf("Network with name %s already exists. Abort. If you want to update the network, use flag --force.\n", name)
				return
			}

			if err == nil && NetworkForce {
				fmt.Printf("Network with name %s already exists. We will replace it with the new network.\n", name)
				willReplace = true
				continue
			}

			// err is not nil means the network is not found, hence we can add it
			if err != nil {
				willReplace = true
				continue
			}
		}

		if willReplace {
			err = networks.AddNetwork(newNetwork)
			if err != nil {
				fmt.Printf("Failed to add the new network: %s\n", err)
				return
			}
			fmt.Printf("Network %s added and saved to ~/.astrolabe/networks/.\n", newNetwork.GetName())
		}
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		networkList := networks.GetSupportedNetworks()
		for i, n := range networkList {
			fmt.Printf("%d. Name: %s\n", i+1, n.GetName())
			fmt.Printf("    Horizon: %s\n", n.GetHorizonURL())
			if n.GetNodeVariableName() != "" {
				fmt.Printf("    Horizon override env var: %s\n", n.GetNodeVariableName())
			}
			if n.GetSearchIndexURL() != "" {
				fmt.Printf("    Search index: %s\n", n.GetSearchIndexURL())
			}
			if n.GetScannerURL() != "" {
				fmt.Printf("    Scanner: %s\n", n.GetScannerURL())
			}
			for _, url := range n.GetAssetListURLs() {
				fmt.Printf("    Asset list: %s\n", url)
			}
		}

		fmt.Printf("\nAstrolabe: If you want to add more networks to the list, use following command:\n> astrolabe network add\n")
		fmt.Printf("\nAstrolabe: If you want to delete a network, just delete the corresponding json file in ~/.astrolabe/networks/.\n")
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage all networks that astrolabe supports",
	Long:  ``,
}

func init() {
	addNetworkCmd.PersistentFlags().StringVarP(&NetworkConfig, "config", "c", "", "Path to the network config json file")
	addNetworkCmd.PersistentFlags().BoolVarP(&NetworkForce, "force", "f", false, "Force adding the network even if it already exists")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
