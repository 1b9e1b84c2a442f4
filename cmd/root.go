// Copyright © 2025 The astrolabe authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrolabe-cli/astrolabe/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "astrolabe",
	Short: "Search Stellar assets and tell the trusted ones from the rest",
	Long: `Astrolabe is a command line tool to look up Stellar assets by code,
contract id or issuer and classify what it finds.

Astrolabe supports you on different ends:

	1. It resolves whatever you type - an asset code like USDC, a C...
	contract id or a CODE-ISSUER pair - into canonical asset records,
	unwrapping Stellar Asset Contracts to their classic issuer identity
	along the way.

	2. It aggregates curated asset lists and splits every result into
	verified and unverified so you know which assets the ecosystem
	vouches for.

	3. It asks a security scan service about the unverified ones and
	flags suspicious or malicious assets before you trust them.

By default, astrolabe supports mainnet, testnet and futurenet. You can add
your own network (private networks, local quickstart nodes) with
"astrolabe network add"; custom horizon endpoints can also be set per
network via its node variable, see "astrolabe network list".

Lookups hit horizon, an indexer, a search index and asset list providers;
responses are cached under ~/.astrolabe so repeated searches stay fast.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "mainnet", "stellar network. Valid values: \"mainnet\", \"testnet\", \"futurenet\" or any custom network added with \"astrolabe network add\".")
	rootCmd.PersistentFlags().StringVarP(&config.JSONOutputFile, "json-output", "o", "", "Write the final result as json to the given file.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
