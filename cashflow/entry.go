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
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/penny-vault/pv-ledger/ledger"
)

// 1-based columns of a monthly sheet
const (
	ColAccount = 2
	ColType    = 3
	ColItem    = 4
	ColAmount  = 5
	ColDate    = 6
	ColMacro   = 7
	ColMicro   = 8
	ColFlag    = 9
	ColNote    = 10
)

// 1-based rows of the sections of a monthly sheet
const (
	IncomeFirstRow  = 7
	IncomeLastRow   = 23
	ExpenseFirstRow = 25
)

const IncomeType = "N/A"

// EntryInput is an income or expense typed by the user; Amount uses ',' as decimal separator
type EntryInput struct {
	Section Section
	Account string   `validate:"required"`
	Type    string   `default:"N/A"`
	Item    string   `validate:"required"`
	Amount  string   `validate:"required"`
	Date    time.Time
	Macro   string   `validate:"required"`
	Micro   string   `validate:"required"`
	Flags   []string `validate:"dive,oneof=R D FAM"`
	Note    string
}

// Entry is a validated cash-flow record ready to be written to the sheet of its month
type Entry struct {
	Section Section
	Sheet   string
	Month   string
	Cells   map[int]string
}

// BuildEntry validates a cash-flow record. The amount must be greater than zero; income entries always have
// the type N/A and never carry flags.
func BuildEntry(in EntryInput) (*Entry, error) {
	in.Item = strings.TrimSpace(in.Item)
	if in.Section == Income {
		in.Type = IncomeType
		in.Flags = nil
	}

	if err := defaults.Set(&in); err != nil {
		return nil, err
	}

	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, err.Error())
	}

	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}

	amount, err := ledger.ValidateAmount(in.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount: %s", ErrInvalidEntry, err.Error())
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidEntry)
	}

	cells := map[int]string{
		ColAccount: in.Account,
		ColType:    in.Type,
		ColItem:    in.Item,
		ColAmount:  "€ " + ledger.FormatAmount(*amount),
		ColDate:    in.Date.Format(ledger.DateFormat),
		ColMacro:   in.Macro,
		ColMicro:   in.Micro,
		ColNote:    in.Note,
	}
	if in.Section == Expense {
		cells[ColFlag] = strings.Join(in.Flags, ", ")
	}

	return &Entry{
		Section: in.Section,
		Sheet:   MonthName(in.Date),
		Month:   MonthLabel(in.Date),
		Cells:   cells,
	}, nil
}

// NextRow returns the 1-based row where the next entry of section is written. items holds the item column
// of the monthly sheet starting at row 1. Income rows are bounded; when they are all used the row after
// the section is returned.
func NextRow(items []string, section Section) int {
	blank := func(row int) bool {
		return row > len(items) || strings.TrimSpace(items[row-1]) == ""
	}

	if section == Income {
		for row := IncomeFirstRow; row <= IncomeLastRow; row++ {
			if blank(row) {
				return row
			}
		}
		return IncomeLastRow + 1
	}

	row := ExpenseFirstRow
	for !blank(row) {
		row++
	}
	return row
}
