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

	"github.com/penny-vault/pv-ledger/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	riskTopN   int
	riskWindow int
)

func init() {
	riskCmd.Flags().IntVar(&riskTopN, "top", 5, "Number of drawdowns to list")
	riskCmd.Flags().IntVar(&riskWindow, "window", 0, "Rolling volatility window in trading days (default analytics.window)")
	rootCmd.AddCommand(riskCmd)
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Print volatility and drawdowns of the portfolio",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		wb := openWorkbook()
		l := loadLedger(wb)

		value := portfolioValue(ctx, l)
		if value.Len() == 0 {
			log.Warn().Msg("portfolio value unavailable; risk cannot be computed")
			fmt.Println("portfolio value unavailable")
			return
		}

		window := riskWindow
		if window == 0 {
			window = viper.GetInt("analytics.window")
		}

		report := portfolio.Analyze(value, window)
		log.Info().Object("Risk", report).Msg("risk analysis")

		fmt.Printf("Annualized volatility: %s\n", percent(report.Volatility))
		fmt.Printf("Max drawdown:          %s on %s\n\n", percent(report.MaxDrawdown), report.MaxDrawdownDate.Format("2006-01-02"))

		table, s := newTable("Begin", "Trough", "Recovery", "Loss")
		for _, dd := range portfolio.TopDrawDowns(value, riskTopN) {
			recovery := "-"
			if !dd.Recovery.IsZero() {
				recovery = dd.Recovery.Format("2006-01-02")
			}
			table.Append([]string{
				dd.Begin.Format("2006-01-02"),
				dd.End.Format("2006-01-02"),
				recovery,
				percent(dd.LossPercent),
			})
		}
		table.Render()
		fmt.Println(s.String())

		fmt.Printf("Rolling volatility (%d days)\n", window)
		fmt.Println(report.RollingVolatility.Tail(10).Table())
	},
}
