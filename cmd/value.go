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
)

var valueDays int

func init() {
	valueCmd.Flags().IntVarP(&valueDays, "days", "n", 20, "Number of most recent days to print, 0 prints all")
	rootCmd.AddCommand(valueCmd)
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Print the daily portfolio value against its cost basis",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		wb := openWorkbook()
		l := loadLedger(wb)

		value := portfolioValue(ctx, l)
		if value.Len() == 0 {
			log.Warn().Msg("portfolio value unavailable; check the market data provider")
			fmt.Println("portfolio value unavailable")
			return
		}

		costBasis := portfolio.CostBasisOn(l, value.Dates)
		table := value.Copy().Insert(portfolio.CostBasisColumn, costBasis.Vals[0])
		if valueDays > 0 {
			table = table.Tail(valueDays)
		}
		fmt.Println(table.Table())

		last := value.Vals[0][value.Len()-1]
		cost := costBasis.Vals[0][costBasis.Len()-1]
		fmt.Printf("Value:      %s\n", money(last))
		fmt.Printf("Cost basis: %s\n", money(cost))
		if cost > 0 {
			fmt.Printf("Gain:       %s (%s)\n", money(last-cost), percent(last/cost-1))
		}
	},
}
