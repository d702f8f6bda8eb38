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

	"github.com/penny-vault/pv-ledger/cashflow"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cashflowView string
	cashflowYear int
)

func init() {
	cashflowCmd.Flags().StringVar(&cashflowView, "view", "all", "Months to include: all, current, last3, last6 or last12")
	cashflowCmd.Flags().IntVar(&cashflowYear, "year", 0, "Only include months of this year")
	rootCmd.AddCommand(cashflowCmd)
}

func printBreakdown(title string, table *cashflow.Table, months []string) {
	slices := cashflow.Breakdown(table, months)
	if len(slices) == 0 {
		return
	}

	t, s := newTable(title, "Amount")
	for _, slice := range slices {
		t.Append([]string{slice.Label, money(slice.Amount)})
	}
	t.Render()
	fmt.Println(s.String())
}

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Summarize monthly income and expenses",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		view, ok := cashflow.ParseView(cashflowView)
		if !ok {
			log.Error().Str("View", cashflowView).Msg("unknown view")
			os.Exit(1)
		}

		wb := openWorkbook()
		cfg := loadCategoryConfig(wb)

		gridSheet := viper.GetString("workbook.cashflow_sheet")
		grid, err := wb.Rows(gridSheet)
		if err != nil {
			log.Fatal().Err(err).Str("Sheet", gridSheet).Msg("could not read cash flow sheet")
		}

		cf, err := cashflow.Parse(grid, cfg)
		if err != nil {
			log.Fatal().Err(err).Str("Sheet", gridSheet).Msg("configuration or sheet structure invalid")
		}

		months := cf.Months
		if cashflowYear != 0 {
			months = cashflow.MonthsOfYear(months, cashflowYear)
		}
		months = cashflow.QuickView(view, months, time.Now().In(common.GetTimezone()))
		if len(months) == 0 {
			fmt.Println("no months selected")
			return
		}

		kpi := cashflow.KPIs(cf, months)
		log.Info().Object("KPI", kpi).Strs("Months", months).Msg("cash flow")

		fmt.Printf("Months:       %s .. %s (%d)\n", months[0], months[len(months)-1], len(months))
		fmt.Printf("Income:       %s\n", money(kpi.Income))
		fmt.Printf("Expense:      %s\n", money(kpi.Expense))
		fmt.Printf("Net savings:  %s\n", money(kpi.Net))
		fmt.Printf("Savings rate: %.1f%%\n\n", kpi.SavingsRate)

		printBreakdown("Expenses (macro)", cf.MacroExpense, months)
		printBreakdown("Expenses (micro)", cf.MicroExpense, months)
		printBreakdown("Income", cf.MicroIncome, months)

		selected := make(map[string]bool, len(months))
		for _, m := range months {
			selected[m] = true
		}
		for _, rec := range cf.Reconciliations {
			if selected[rec.Month] {
				fmt.Printf("warning: %s %s has %s not assigned to any category\n", rec.Section, rec.Month, money(rec.Uncategorized))
			}
		}
	},
}
