package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/astrolabe-cli/astrolabe/assetidx"
	"github.com/astrolabe-cli/astrolabe/assetlist"
	"github.com/astrolabe-cli/astrolabe/cache"
	"github.com/astrolabe-cli/astrolabe/common"
	"github.com/astrolabe-cli/astrolabe/config"
	"github.com/astrolabe-cli/astrolabe/contractmeta"
	"github.com/astrolabe-cli/astrolabe/guard"
	"github.com/astrolabe-cli/astrolabe/horizon"
	"github.com/astrolabe-cli/astrolabe/networks"
	"github.com/astrolabe-cli/astrolabe/resolver"
	"github.com/astrolabe-cli/astrolabe/scanner"
	"github.com/astrolabe-cli/astrolabe/searchindex"
	"github.com/astrolabe-cli/astrolabe/ui"
)

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr.HomeDir
}

func cacheStorePath() string {
	return filepath.Join(getHomeDir(), ".astrolabe", "cache.json")
}

// listSource serves the network's asset lists plus any extra urls the user
// passed with --list-url.
type listSource struct {
	agg   *assetlist.Aggregator
	extra []string
}

func (ls listSource) Aggregate(ctx context.Context, net networks.Network) ([]assetlist.Entry, []assetlist.ValidationError) {
	if len(ls.extra) == 0 {
		return ls.agg.Aggregate(ctx, net)
	}
	urls := append([]string{}, net.GetAssetListURLs()...)
	urls = append(urls, ls.extra...)
	return ls.agg.AggregateURLs(ctx, net, urls)
}

// searchStack wires every collaborator of one search against one network.
type searchStack struct {
	net     networks.Network
	store   *cache.Store
	lists   listSource
	horizon *horizon.Client
	pipe    *resolver.Pipeline
}

func newSearchStack(networkName string) (*searchStack, error) {
	net, err := networks.GetNetwork(networkName)
	if err != nil {
		return nil, err
	}
	networks.SetNetwork(networkName)

	store := cache.NewPersistentStore(cacheStorePath())
	lists := listSource{
		agg:   assetlist.NewAggregator(store, assetlist.NewClient()),
		extra: config.ExtraListURLs,
	}
	meta := contractmeta.NewClient(net.GetIndexerURL())
	search := searchindex.NewClient(net.GetSearchIndexURL())
	scans := scanner.NewClient(net.GetScannerURL())

	res := resolver.NewResolver(lists, meta, search, scans)
	res.Report = func(err error) {
		fmt.Printf("WARNING: a lookup source misbehaved: %s. Ignored.\n", err)
	}

	return &searchStack{
		net:     net,
		store:   store,
		lists:   lists,
		horizon: horizon.NewClient(store),
		pipe:    resolver.NewPipeline(guard.NewGuard(), res, scanner.NewCoordinator(scans), lists),
	}, nil
}

var findCmd = &cobra.Command{
	Use:   "find [code, CODE-ISSUER or contract id]",
	Short: "Look up an asset and classify it as verified or unverified",
	Long: `Looks up whatever you pass - an asset code like USDC, a C... contract id
or a CODE-ISSUER pair - and prints the matching assets split into verified
(present on the network's curated asset lists) and unverified. Unverified
assets are then checked against the security scan service and suspicious
ones are flagged as the verdicts arrive, unless --no-scan is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFind(args[0])
	},
}

func runFind(text string) error {
	if config.AccountID != "" && !common.IsAccountID(config.AccountID) {
		return fmt.Errorf("%q is not a valid account id", config.AccountID)
	}

	stack, err := newSearchStack(config.Network)
	if err != nil {
		return err
	}

	u := ui.NewTerminalUI()
	ctx := context.Background()

	balances := accountBalances(ctx, u, stack)

	stop := u.Spinner(fmt.Sprintf("Searching %q on %s...", text, stack.net.GetName()))
	published := 0
	var last resolver.Result
	err = stack.pipe.Search(ctx, stack.net, text, resolver.Options{
		NoScan:    config.NoScan,
		AccountID: config.AccountID,
	}, func(res resolver.Result) {
		if published == 0 {
			stop()
			renderResult(u, res, balances)
		} else {
			renderScanUpdate(u, last, res)
		}
		last = res
		published++
	})
	if published == 0 {
		stop()
	}
	if err != nil {
		return err
	}

	if len(last.VerifiedAssets)+len(last.UnverifiedAssets) == 0 {
		suggestAlternatives(ctx, u, stack, text)
	}

	if config.JSONOutputFile != "" {
		if err = writeJSONResult(config.JSONOutputFile, last); err != nil {
			return err
		}
		u.Info("Result written to %s", config.JSONOutputFile)
	}
	return nil
}

// accountBalances returns the searching account's balances keyed by asset
// id, or nil when no account was given or horizon is unreachable.
func accountBalances(ctx context.Context, u ui.UI, stack *searchStack) map[string]string {
	if config.AccountID == "" {
		return nil
	}
	lines, err := stack.horizon.AccountBalances(ctx, stack.net, config.AccountID)
	if err != nil {
		u.Warn("Couldn't fetch balances for %s: %s. Continuing without them.", config.AccountID, err)
		return nil
	}
	balances := map[string]string{}
	for _, line := range lines {
		if line.IsNative() {
			balances[stack.net.GetNativeAssetCode()] = line.Amount
			continue
		}
		balances[fmt.Sprintf("%s-%s", line.Code, line.Issuer)] = line.Amount
	}
	return balances
}

func verdictText(u ui.UI, v *common.Verdict) string {
	if v == nil {
		return ""
	}
	severity := ui.SeverityInfo
	switch v.ResultType {
	case common.VerdictBenign:
		severity = ui.SeveritySuccess
	case common.VerdictWarning:
		severity = ui.SeverityWarn
	case common.VerdictMalicious:
		severity = ui.SeverityError
	}
	return u.Style(ui.StyledText{Text: string(v.ResultType), Severity: severity})
}

func assetRow(u ui.UI, a common.Asset, balances map[string]string) []string {
	id := a.Issuer
	if id == "" {
		id = a.ContractID
	}
	if a.Native {
		id = "native"
	}
	row := []string{a.Code, id, a.Domain, verdictText(u, a.Verdict)}
	if balances != nil {
		row = append(row, balances[a.ID()])
	}
	return row
}

func renderResult(u ui.UI, res resolver.Result, balances map[string]string) {
	headers := []string{"Code", "Issuer / Contract", "Domain", "Verdict"}
	if balances != nil {
		headers = append(headers, "Balance")
	}

	if res.ShowVerificationInfo && res.IsVerifiedToken {
		u.Success("Found %d verified asset(s)", len(res.VerifiedAssets))
	}

	if len(res.VerifiedAssets) > 0 {
		u.Section("Verified assets")
		rows := [][]string{}
		for _, a := range res.VerifiedAssets {
			rows = append(rows, assetRow(u, a, balances))
		}
		u.Table(headers, rows)
	}

	if len(res.UnverifiedAssets) > 0 {
		if res.ShowVerificationInfo {
			u.Section("Unverified assets")
			u.Warn("These assets are not on any curated list. Verify the issuer yourself before trusting them.")
		} else {
			u.Section("Assets")
		}
		rows := [][]string{}
		for _, a := range res.UnverifiedAssets {
			rows = append(rows, assetRow(u, a, balances))
		}
		u.Table(headers, rows)
	}

	if len(res.VerifiedAssets)+len(res.UnverifiedAssets) == 0 {
		u.Info("No assets found.")
	}
}

// renderScanUpdate prints verdicts that arrived since the previous publish
// instead of re-rendering the whole table.
func renderScanUpdate(u ui.UI, prev, cur resolver.Result) {
	seen := map[string]bool{}
	for _, a := range prev.UnverifiedAssets {
		if a.Verdict != nil {
			seen[a.ID()] = true
		}
	}
	for _, a := range cur.UnverifiedAssets {
		if a.Verdict == nil || seen[a.ID()] {
			continue
		}
		switch {
		case a.Verdict.IsMalicious():
			u.Critical("%s is flagged MALICIOUS (score %.2f) %v", a.ID(), a.Verdict.MaliciousScore, a.Verdict.Features)
		case a.Verdict.IsSuspicious():
			u.Warn("%s is flagged suspicious: %v", a.ID(), a.Verdict.Features)
		default:
			u.Success("%s: no issues found", a.ID())
		}
	}
}

// suggestAlternatives offers close matches from the aggregated lists and
// the local full text index when a search comes up empty.
func suggestAlternatives(ctx context.Context, u ui.UI, stack *searchStack, text string) {
	entries, _ := stack.lists.Aggregate(ctx, stack.net)
	if len(entries) == 0 {
		return
	}

	limit := config.Limit
	if limit <= 0 {
		limit = 10
	}
	suggested := assetlist.Suggest(text, entries, limit)

	if len(suggested) < limit {
		index, err := assetidx.NewAssetIndex()
		if err == nil {
			if err = index.Update(entries); err == nil {
				hits, _ := index.Search(text)
				suggested = appendIndexHits(suggested, entries, hits, limit)
			}
		}
	}

	if len(suggested) == 0 {
		return
	}
	u.Info("Did you mean:")
	for _, entry := range suggested {
		id := entry.Issuer
		if id == "" {
			id = entry.ContractID
		}
		u.Info("  %s-%s (%s)", entry.Code, id, entry.Domain)
	}
}

func appendIndexHits(suggested []assetlist.Entry, entries []assetlist.Entry, hits []assetidx.AssetDesc, limit int) []assetlist.Entry {
	have := map[string]bool{}
	for _, entry := range suggested {
		have[entry.Code+entry.Issuer+entry.ContractID] = true
	}
	byID := map[string]assetlist.Entry{}
	for _, entry := range entries {
		id := entry.ContractID
		if id == "" {
			id = fmt.Sprintf("%s-%s", entry.Code, entry.Issuer)
		}
		byID[id] = entry
	}
	for _, hit := range hits {
		if len(suggested) >= limit {
			break
		}
		entry, found := byID[hit.ID]
		if !found || have[entry.Code+entry.Issuer+entry.ContractID] {
			continue
		}
		have[entry.Code+entry.Issuer+entry.ContractID] = true
		suggested = append(suggested, entry)
	}
	return suggested
}

func writeJSONResult(path string, res resolver.Result) error {
	jsonData, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0644)
}

func init() {
	findCmd.PersistentFlags().BoolVarP(&config.NoScan, "no-scan", "S", false, "Skip the security scan of unverified assets.")
	findCmd.PersistentFlags().StringVarP(&config.AccountID, "account", "a", "", "Account id (G...) whose balances should be shown next to matching assets.")
	findCmd.PersistentFlags().IntVarP(&config.Limit, "limit", "l", 10, "Maximum number of suggestions when nothing matches exactly.")
	findCmd.PersistentFlags().StringSliceVarP(&config.ExtraListURLs, "list-url", "L", nil, "Extra asset list url(s) to aggregate on top of the network's curated lists.")
	rootCmd.AddCommand(findCmd)
}
