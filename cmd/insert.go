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
	"fmt"
	"os"
	"time"

	"github.com/penny-vault/pv-ledger/common"
	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var insertInput = ledger.EntryInput{}
var insertDate string

func init() {
	insertCmd.Flags().StringVarP(&insertInput.Symbol, "symbol", "s", "", "Ledger symbol, e.g. BIT:VWCE")
	insertCmd.Flags().StringVarP(&insertInput.Category, "category", "c", "Stocks", "One of Stocks, Azione, Bond, Saveback, RoundUp, Altro")
	insertCmd.Flags().StringVarP(&insertInput.Quantity, "quantity", "q", "", "Number of shares, ',' as decimal separator")
	insertCmd.Flags().StringVarP(&insertInput.Price, "price", "p", "", "Price per share, ',' as decimal separator")
	insertCmd.Flags().StringVar(&insertInput.Fee, "fee", "", "Trading fee, ',' as decimal separator")
	insertCmd.Flags().StringVarP(&insertDate, "date", "d", "", "Purchase date dd/mm/yyyy (default today)")
	rootCmd.AddCommand(insertCmd)
}

// parseDate reads a dd/mm/yyyy date in the configured timezone, an empty string is today
func parseDate(s string) (time.Time, error) {
	tz := common.GetTimezone()
	if s == "" {
		return common.Midnight(time.Now(), tz), nil
	}
	return time.ParseInLocation(ledger.DateFormat, s, tz)
}

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Append a purchase to the ledger",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		date, err := parseDate(insertDate)
		if err != nil {
			log.Error().Err(err).Str("Date", insertDate).Msg("invalid date")
			os.Exit(1)
		}
		insertInput.Date = date

		values, err := ledger.BuildEntry(insertInput)
		if err != nil {
			log.Error().Err(err).Msg("invalid purchase")
			os.Exit(1)
		}

		wb := openWorkbook()
		holdingSheet := viper.GetString("workbook.holding_sheet")
		row, err := wb.AppendRow(holdingSheet, ledger.HeaderRow, ledger.ReferenceColumn, values)
		if err != nil {
			log.Fatal().Err(err).Str("Sheet", holdingSheet).Msg("could not append purchase")
		}

		if err := common.CachePurge(); err != nil {
			log.Warn().Err(err).Msg("could not purge cache")
		}

		fmt.Printf("purchase of %s written to row %d of %s\n", insertInput.Symbol, row, holdingSheet)
	},
}
