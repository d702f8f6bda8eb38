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

// Package cashflow aggregates the monthly income and expense tables of the
// IN-OUT worksheet and reconciles them against the sheet's own totals.
package cashflow

import (
	"errors"
)

const (
	SentinelLabel        = "Macro ENTRATE"
	IncomeTotalLabel     = "TOTALE ENTRATE"
	ExpenseSentinelLabel = "Macro USCITE"
	ExpenseTotalLabel    = "TOTALE USCITE"
	LabelColumn          = 1 // column B
	Tolerance            = 0.01
)

var (
	ErrSentinelNotFound = errors.New("cash flow header row not found")
	ErrInvalidConfig    = errors.New("invalid category configuration")
	ErrInvalidEntry     = errors.New("invalid cash flow entry")
)

// Section is one half of the cash-flow sheet
type Section int

const (
	Income Section = iota
	Expense
)

func (s Section) String() string {
	if s == Expense {
		return "USCITE"
	}
	return "ENTRATE"
}

// Source supplies the raw IN-OUT grid and the appconfig records
type Source interface {
	Grid() ([][]string, error)
	ConfigRows() ([][]string, error)
}

// Row is the monthly series of one category label
type Row struct {
	Label  string
	Values []float64
}

// Table holds the rows of one category level, every row has a value per month in Months
type Table struct {
	Months []string
	Rows   []*Row
}

// Reconciliation reports a month where the sheet total does not match the sum of its categorized rows
type Reconciliation struct {
	Section       Section
	Month         string
	Master        float64
	Detail        float64
	Uncategorized float64
}

// CashFlow is the parsed IN-OUT sheet. TotalIncome and TotalExpense are the sums of the macro rows and are
// the only totals used for charts and KPIs; MasterIncome and MasterExpense are nil when the sheet has no
// total row.
type CashFlow struct {
	Months          []string
	MacroIncome     *Table
	MicroIncome     *Table
	MacroExpense    *Table
	MicroExpense    *Table
	TotalIncome     map[string]float64
	TotalExpense    map[string]float64
	MasterIncome    map[string]float64
	MasterExpense   map[string]float64
	Reconciliations []*Reconciliation
}

func newTable(months []string) *Table {
	return &Table{
		Months: months,
		Rows:   []*Row{},
	}
}

// Row returns the row with the given label or nil
func (t *Table) Row(label string) *Row {
	for _, r := range t.Rows {
		if r.Label == label {
			return r
		}
	}
	return nil
}

// MonthTotals sums every row per month
func (t *Table) MonthTotals() map[string]float64 {
	res := make(map[string]float64, len(t.Months))
	for idx, month := range t.Months {
		total := 0.0
		for _, r := range t.Rows {
			total += r.Values[idx]
		}
		res[month] = total
	}
	return res
}

// sumSelected adds the entries of vals whose month is in selected
func sumSelected(months []string, vals []float64, selected []string) float64 {
	want := make(map[string]bool, len(selected))
	for _, m := range selected {
		want[m] = true
	}

	total := 0.0
	for idx, m := range months {
		if want[m] {
			total += vals[idx]
		}
	}
	return total
}
