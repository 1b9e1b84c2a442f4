package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrolabe-cli/astrolabe/assetlist"
	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/config"
	"github.com/astrolabe-cli/astrolabe/trust"
	"github.com/astrolabe-cli/astrolabe/ui"
)

var balancesCmd = &cobra.Command{
	Use:   "balances [account id]",
	Short: "Show an account's balances with their trust classification",
	Long: `Fetches the account's balance lines from horizon and marks each asset as
verified (present on the network's curated asset lists) or unverified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBalances(args[0])
	},
}

func runBalances(accountID string) error {
	if !common.IsAccountID(accountID) {
		return fmt.Errorf("%q is not a valid account id", accountID)
	}

	stack, err := newSearchStack(config.Network)
	if err != nil {
		return err
	}

	u := ui.NewTerminalUI()
	ctx := context.Background()

	stop := u.Spinner(fmt.Sprintf("Fetching balances of %s...", accountID))
	lines, err := stack.horizon.AccountBalances(ctx, stack.net, accountID)
	if err != nil {
		stop()
		return err
	}

	entries, _ := stack.lists.Aggregate(ctx, stack.net)
	trusted := trust.NewSet(assetlist.TrustedIDs(entries)...)
	stop()

	rows := [][]string{}
	for _, line := range lines {
		asset := common.Asset{
			Code:   line.Code,
			Issuer: line.Issuer,
			Native: line.IsNative(),
		}
		if asset.Native {
			asset.Code = stack.net.GetNativeAssetCode()
		}
		status := ""
		if stack.net.IsVerificationSupported() {
			if trust.IsVerified(asset, trusted) {
				status = u.Style(ui.StyledText{Text: "verified", Severity: ui.SeveritySuccess})
			} else {
				status = u.Style(ui.StyledText{Text: "unverified", Severity: ui.SeverityWarn})
			}
		}
		issuer := line.Issuer
		if asset.Native {
			issuer = "native"
		}
		rows = append(rows, []string{asset.Code, issuer, line.Amount, status})
	}

	if len(rows) == 0 {
		u.Info("No balances found.")
		return nil
	}
	u.Table([]string{"Code", "Issuer", "Balance", "Status"}, rows)
	return nil
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}
