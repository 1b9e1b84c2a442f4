package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrolabe-cli/astrolabe/assetlist"
	"github.com/astrolabe-cli/astrolabe/config"
	"github.com/astrolabe-cli/astrolabe/networks"
	"github.com/astrolabe-cli/astrolabe/ui"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show the curated asset lists of the selected network",
	Long: `Fetches every asset list the selected network is configured with and shows
its provider, version and entry count, along with any entries that were
dropped for failing validation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLists()
	},
}

func runLists() error {
	net, err := networks.GetNetwork(config.Network)
	if err != nil {
		return err
	}

	urls := append([]string{}, net.GetAssetListURLs()...)
	urls = append(urls, config.ExtraListURLs...)
	if len(urls) == 0 {
		fmt.Printf("Network %s has no curated asset lists.\n", net.GetName())
		return nil
	}

	u := ui.NewTerminalUI()
	client := assetlist.NewClient()
	ctx := context.Background()

	rows := [][]string{}
	problems := []assetlist.ValidationError{}
	for _, url := range urls {
		list, verrs, err := client.FetchList(ctx, url)
		problems = append(problems, verrs...)
		if err != nil {
			u.Error("%s: %s", url, err)
			continue
		}
		if list == nil {
			continue
		}
		rows = append(rows, []string{
			list.Name,
			list.Provider,
			list.Version,
			fmt.Sprintf("%d", len(list.Assets)),
			url,
		})
	}

	if len(rows) > 0 {
		u.Table([]string{"Name", "Provider", "Version", "Assets", "URL"}, rows)
	}

	if len(problems) > 0 {
		u.Section("Dropped entries")
		for _, p := range problems {
			u.Warn("%s", p.Error())
		}
	}
	return nil
}

func init() {
	listsCmd.PersistentFlags().StringSliceVarP(&config.ExtraListURLs, "list-url", "L", nil, "Extra asset list url(s) to inspect on top of the network's curated lists.")
	rootCmd.AddCommand(listsCmd)
}
