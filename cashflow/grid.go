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

package cashflow

import (
	"fmt"
	"math"
	"strings"

	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/rs/zerolog/log"
)

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// findLabel returns the index of the first row in [start, end) whose label column equals label
func findLabel(grid [][]string, start, end int, label string) int {
	if end > len(grid) {
		end = len(grid)
	}
	for idx := start; idx < end; idx++ {
		if strings.TrimSpace(cell(grid[idx], LabelColumn)) == label {
			return idx
		}
	}
	return -1
}

// Parse extracts the income and expense tables from the IN-OUT grid. The header row is the first row whose
// column B reads "Macro ENTRATE"; every header cell containing '/' is a month column. Income labels are
// looked up between the header and "TOTALE ENTRATE", expense labels below it, so a label used in both
// sections resolves to the row of its own section. Configured labels
// without a matching row are skipped. Parse fails only when the header row is missing.
func Parse(grid [][]string, cfg *CategoryConfig) (*CashFlow, error) {
	headerIdx := findLabel(grid, 0, len(grid), SentinelLabel)
	if headerIdx == -1 {
		log.Error().Str("Sentinel", SentinelLabel).Int("NumRows", len(grid)).Msg("cash flow header row not found")
		return nil, ErrSentinelNotFound
	}

	monthCols := map[string]int{}
	months := []string{}
	for colIdx, header := range grid[headerIdx] {
		header = strings.TrimSpace(header)
		if !strings.Contains(header, "/") {
			continue
		}
		if _, ok := monthCols[header]; ok {
			continue
		}
		monthCols[header] = colIdx
		months = append(months, header)
	}
	months = SortMonths(months)

	extract := func(rowIdx int) []float64 {
		vals := make([]float64, len(months))
		for idx, month := range months {
			vals[idx] = ledger.ParseAmount(cell(grid[rowIdx], monthCols[month]))
		}
		return vals
	}

	// income rows end at the income total, expense rows start below it (or at the expense header)
	incomeEnd, expenseStart := len(grid), headerIdx
	if idx := findLabel(grid, headerIdx, len(grid), IncomeTotalLabel); idx != -1 {
		incomeEnd, expenseStart = idx+1, idx+1
	}
	if idx := findLabel(grid, headerIdx+1, len(grid), ExpenseSentinelLabel); idx != -1 {
		if incomeEnd > idx {
			incomeEnd = idx
		}
		expenseStart = idx
	}

	build := func(labels []string, start, end int) *Table {
		table := newTable(months)
		for _, label := range labels {
			rowIdx := findLabel(grid, start, end, label)
			if rowIdx == -1 {
				log.Debug().Str("Label", label).Msg("category has no row in cash flow sheet")
				continue
			}
			table.Rows = append(table.Rows, &Row{Label: label, Values: extract(rowIdx)})
		}
		return table
	}

	master := func(label string, start, end int) map[string]float64 {
		rowIdx := findLabel(grid, start, end, label)
		if rowIdx == -1 {
			log.Debug().Str("Label", label).Msg("total row not found; skipping reconciliation")
			return nil
		}
		vals := extract(rowIdx)
		res := make(map[string]float64, len(months))
		for idx, month := range months {
			res[month] = vals[idx]
		}
		return res
	}

	cf := &CashFlow{
		Months:        months,
		MacroIncome:   build(cfg.MacroIncome, headerIdx, incomeEnd),
		MicroIncome:   build(cfg.MicroIncome, headerIdx, incomeEnd),
		MacroExpense:  build(cfg.MacroExpense, expenseStart, len(grid)),
		MicroExpense:  build(cfg.MicroExpense, expenseStart, len(grid)),
		MasterIncome:  master(IncomeTotalLabel, headerIdx, incomeEnd),
		MasterExpense: master(ExpenseTotalLabel, expenseStart, len(grid)),
	}
	cf.TotalIncome = cf.MacroIncome.MonthTotals()
	cf.TotalExpense = cf.MacroExpense.MonthTotals()

	cf.Reconciliations = append(reconcile(Income, months, cf.MasterIncome, cf.TotalIncome),
		reconcile(Expense, months, cf.MasterExpense, cf.TotalExpense)...)

	return cf, nil
}

// reconcile compares the master total with the categorized total month by month
func reconcile(section Section, months []string, master, detail map[string]float64) []*Reconciliation {
	res := []*Reconciliation{}
	if master == nil {
		return res
	}

	for _, month := range months {
		diff := master[month] - detail[month]
		if math.Abs(diff) <= Tolerance {
			continue
		}

		rec := &Reconciliation{
			Section:       section,
			Month:         month,
			Master:        master[month],
			Detail:        detail[month],
			Uncategorized: diff,
		}
		log.Warn().Object("Reconciliation", rec).Msg("uncategorized amount in cash flow sheet")
		res = append(res, rec)
	}

	return res
}

// Load reads the category configuration and the IN-OUT grid from src and parses them
func Load(src Source) (*CashFlow, *CategoryConfig, error) {
	records, err := src.ConfigRows()
	if err != nil {
		return nil, nil, fmt.Errorf("read category config: %w", err)
	}

	cfg, err := ConfigFromRecords(records)
	if err != nil {
		return nil, nil, err
	}

	grid, err := src.Grid()
	if err != nil {
		return nil, cfg, fmt.Errorf("read cash flow grid: %w", err)
	}

	cf, err := Parse(grid, cfg)
	if err != nil {
		return nil, cfg, err
	}

	return cf, cfg, nil
}
