// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/penny-vault/pv-ledger/data"
	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/penny-vault/pv-ledger/portfolio"
	"github.com/penny-vault/pv-ledger/symbols"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var detailBenchmark string

func init() {
	detailCmd.Flags().StringVarP(&detailBenchmark, "benchmark", "b", "", "Provider symbol to compare against, e.g. ^GSPC")
	rootCmd.AddCommand(detailCmd)
}

// tradedSymbols lists the ledger symbols bought on an exchange
func tradedSymbols(l *ledger.Ledger) []string {
	res := []string{}
	for _, sym := range l.Symbols() {
		txs := l.ForSymbol(sym)
		if len(txs) > 0 && txs[0].Category.Traded() {
			res = append(res, sym)
		}
	}
	return res
}

var detailCmd = &cobra.Command{
	Use:   "detail [SYMBOL]",
	Short: "Print the average cost history of an instrument",
	Long: `Print every purchase of an instrument with the running quantity, cost and
average cost price (PMC). Without a symbol the instruments available are listed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		wb := openWorkbook()
		l := loadLedger(wb)

		traded := tradedSymbols(l)
		if len(args) == 0 {
			for _, sym := range traded {
				fmt.Printf("%-20s %s\n", sym, l.Name(sym))
			}
			return
		}

		symbol := args[0]
		txs := l.ForSymbol(symbol)
		if len(txs) == 0 || !txs[0].Category.Traded() {
			log.Error().Str("Symbol", symbol).Strs("Available", traded).Msg("symbol is not a traded instrument of the ledger")
			os.Exit(1)
		}

		providerSymbol := symbols.ToProvider(symbol)
		request := []string{providerSymbol}
		if detailBenchmark != "" {
			request = append(request, detailBenchmark)
		}

		prices, err := data.GetManagerInstance().Close(ctx, request, txs[0].PurchaseDate)
		if err != nil {
			log.Warn().Err(err).Str("Symbol", providerSymbol).Msg("prices unavailable; using ledger snapshot price")
			prices = nil
		}

		latest := portfolio.LatestPrice(prices, providerSymbol, txs)
		steps := portfolio.InstrumentHistory(txs, latest)

		table, s := newTable("Date", "Quantity", "Cost", "Cum. Quantity", "Cum. Cost", "PMC", "Value")
		for _, step := range steps {
			log.Debug().Object("Step", step).Msg("instrument step")
			table.Append([]string{
				step.Date.Format(ledger.DateFormat),
				step.Quantity.String(),
				step.Cost.StringFixed(2),
				step.CumQuantity.String(),
				step.CumCost.StringFixed(2),
				step.PMC.StringFixed(4),
				step.Value.StringFixed(2),
			})
		}
		table.Render()
		fmt.Println(s.String())

		summary := portfolio.Summarize(symbol, txs, latest)
		log.Info().Object("Summary", summary).Msg("instrument summary")
		fmt.Printf("%s %s (%s)\n", summary.Symbol, summary.Name, summary.Category)
		fmt.Printf("Latest price: %s  PMC: %s  Value: %s  Gain: %s (%s)\n\n",
			summary.LatestPrice.StringFixed(4), summary.PMC.StringFixed(4), summary.Value.StringFixed(2),
			summary.Gain.StringFixed(2), percent(summary.GainPercent))

		if detailBenchmark != "" && prices != nil {
			compare := prices.Select(providerSymbol, detailBenchmark)
			if compare.ColCount() < 2 {
				log.Warn().Str("Benchmark", detailBenchmark).Msg("benchmark has no prices")
				return
			}
			normalized := portfolio.Normalize100(compare)
			fmt.Printf("Base 100 comparison with %s\n", detailBenchmark)
			fmt.Println(normalized.Tail(20).Table())
		}
	},
}
