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
	"sort"
	"time"
)

// KPI summarizes income and expense over a set of months. SavingsRate is a percentage of income.
type KPI struct {
	Income      float64
	Expense     float64
	Net         float64
	SavingsRate float64
}

// Slice is the total of one category label over a set of months
type Slice struct {
	Label  string
	Amount float64
}

// View selects a range of months
type View int

const (
	ViewAll View = iota
	ViewCurrentMonth
	ViewLast3
	ViewLast6
	ViewLast12
)

var viewNames = map[string]View{
	"all":     ViewAll,
	"current": ViewCurrentMonth,
	"last3":   ViewLast3,
	"last6":   ViewLast6,
	"last12":  ViewLast12,
}

// ParseView converts a view name (all, current, last3, last6, last12) into a View
func ParseView(name string) (View, bool) {
	v, ok := viewNames[name]
	return v, ok
}

func (v View) String() string {
	for name, view := range viewNames {
		if view == v {
			return name
		}
	}
	return "unknown"
}

func (v View) lastN() int {
	switch v {
	case ViewLast3:
		return 3
	case ViewLast6:
		return 6
	case ViewLast12:
		return 12
	default:
		return 0
	}
}

// KPIs computes the totals of income and expense over months. The savings rate is 0 when there is no
// income.
func KPIs(cf *CashFlow, months []string) KPI {
	kpi := KPI{}
	for _, m := range months {
		kpi.Income += cf.TotalIncome[m]
		kpi.Expense += cf.TotalExpense[m]
	}

	kpi.Net = kpi.Income - kpi.Expense
	if kpi.Income > 0 {
		kpi.SavingsRate = kpi.Net / kpi.Income * 100
	}
	return kpi
}

// Breakdown totals every row of table over months, largest first. Labels that total 0 over the selected
// months are left out, even when they have amounts in other months.
func Breakdown(table *Table, months []string) []Slice {
	res := []Slice{}
	for _, r := range table.Rows {
		amount := sumSelected(table.Months, r.Values, months)
		if amount == 0 {
			continue
		}
		res = append(res, Slice{Label: r.Label, Amount: amount})
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Amount > res[j].Amount
	})
	return res
}

// QuickView selects months according to view. months must be sorted chronologically. The last N views end
// at the current month when it is available and at the last available month otherwise.
func QuickView(view View, months []string, now time.Time) []string {
	current := MonthLabel(now)
	currentIdx := -1
	for idx, m := range months {
		if m == current {
			currentIdx = idx
			break
		}
	}

	switch view {
	case ViewAll:
		return append([]string{}, months...)
	case ViewCurrentMonth:
		if currentIdx == -1 {
			return []string{}
		}
		return []string{current}
	}

	n := view.lastN()
	if n == 0 || len(months) == 0 {
		return []string{}
	}

	end := currentIdx
	if end == -1 {
		end = len(months) - 1
	}
	start := end - n + 1
	if start < 0 {
		start = 0
	}
	return append([]string{}, months[start:end+1]...)
}
