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

	"github.com/penny-vault/pv-ledger/cashflow"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cashflowInput   = cashflow.EntryInput{}
	cashflowSection string
	cashflowDate    string
)

func init() {
	flags := insertCashflowCmd.Flags()
	flags.StringVar(&cashflowSection, "section", "expense", "Either income or expense")
	flags.StringVar(&cashflowInput.Account, "account", "", "Account (Conto)")
	flags.StringVar(&cashflowInput.Type, "type", "", "Type (Tipo), ignored for income")
	flags.StringVar(&cashflowInput.Item, "item", "", "Description (Voce)")
	flags.StringVar(&cashflowInput.Amount, "amount", "", "Amount, ',' as decimal separator")
	flags.StringVar(&cashflowInput.Macro, "macro", "", "Macro category")
	flags.StringVar(&cashflowInput.Micro, "micro", "", "Micro category")
	flags.StringSliceVar(&cashflowInput.Flags, "flag", nil, "Expense flags: R (recurring), D (deductible), FAM (family)")
	flags.StringVar(&cashflowInput.Note, "note", "", "Free text note")
	flags.StringVarP(&cashflowDate, "date", "d", "", "Date dd/mm/yyyy (default today)")
	rootCmd.AddCommand(insertCashflowCmd)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var insertCashflowCmd = &cobra.Command{
	Use:   "insert-cashflow",
	Short: "Append an income or expense to the sheet of its month",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		switch cashflowSection {
		case "income":
			cashflowInput.Section = cashflow.Income
		case "expense":
			cashflowInput.Section = cashflow.Expense
		default:
			log.Error().Str("Section", cashflowSection).Msg("section must be income or expense")
			os.Exit(1)
		}

		date, err := parseDate(cashflowDate)
		if err != nil {
			log.Error().Err(err).Str("Date", cashflowDate).Msg("invalid date")
			os.Exit(1)
		}
		cashflowInput.Date = date

		entry, err := cashflow.BuildEntry(cashflowInput)
		if err != nil {
			log.Error().Err(err).Msg("invalid cash flow entry")
			os.Exit(1)
		}

		wb := openWorkbook()
		cfg := loadCategoryConfig(wb)

		macros, micros := cfg.MacroIncome, cfg.MicroIncome
		if entry.Section == cashflow.Expense {
			macros, micros = cfg.MacroExpense, cfg.MicroExpense
		}
		if !contains(macros, cashflowInput.Macro) || !contains(micros, cashflowInput.Micro) {
			log.Error().Str("Macro", cashflowInput.Macro).Str("Micro", cashflowInput.Micro).Strs("Macros", macros).Msg("unknown category")
			os.Exit(1)
		}

		items, err := wb.Column(entry.Sheet, cashflow.ColItem)
		if err != nil {
			log.Fatal().Err(err).Str("Sheet", entry.Sheet).Msg("month sheet not found")
		}

		row := cashflow.NextRow(items, entry.Section)
		if err := wb.WriteCells(entry.Sheet, row, entry.Cells); err != nil {
			log.Fatal().Err(err).Object("Entry", entry).Msg("could not write cash flow entry")
		}
		log.Info().Object("Entry", entry).Int("Row", row).Msg("cash flow entry written")

		if err := common.CachePurge(); err != nil {
			log.Warn().Err(err).Msg("could not purge cache")
		}

		fmt.Printf("%s written to row %d of %s\n", entry.Section, row, entry.Sheet)
	},
}
