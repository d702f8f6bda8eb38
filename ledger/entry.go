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

package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// EntryInput is a purchase as typed by the user, amounts use ',' as decimal separator
type EntryInput struct {
	Symbol   string `validate:"required"`
	Category string `validate:"required,oneof=Stocks Azione Bond Saveback RoundUp Altro"`
	Quantity string `validate:"required"`
	Price    string `validate:"required"`
	Fee      string `default:"0,00"`
	Date     time.Time
}

// BuildEntry validates a purchase and converts it into the header name to cell value map appended to the
// Holding sheet. Quantity and price must be greater than zero.
func BuildEntry(in EntryInput) (map[string]string, error) {
	in.Symbol = strings.TrimSpace(in.Symbol)
	if err := defaults.Set(&in); err != nil {
		return nil, err
	}

	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, err.Error())
	}

	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: purchase date is required", ErrInvalidEntry)
	}

	qty, err := positiveAmount(in.Quantity, "quantity")
	if err != nil {
		return nil, err
	}

	price, err := positiveAmount(in.Price, "price")
	if err != nil {
		return nil, err
	}

	fee, err := ValidateAmount(in.Fee)
	if err != nil {
		return nil, fmt.Errorf("%w: fee: %s", ErrInvalidEntry, err.Error())
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("%w: fee must not be negative", ErrInvalidEntry)
	}

	return map[string]string{
		ColSymbol:   in.Symbol,
		ColCategory: in.Category,
		ColQuantity: FormatAmount(*qty),
		ColPrice:    FormatAmount(*price),
		ColDate:     in.Date.Format(DateFormat),
		ColFees:     FormatAmount(*fee),
	}, nil
}

func positiveAmount(s, field string) (*decimal.Decimal, error) {
	d, err := ValidateAmount(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidEntry, field, err.Error())
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidEntry, field)
	}
	return d, nil
}

// NextEmptyRow returns the 1-based sheet row where the next entry is written. column holds the values of
// the reference column starting at sheet row 1 and headerRow is the 1-based row of the column names. The
// result is the number of non-empty cells below the header plus headerRow plus one.
func NextEmptyRow(column []string, headerRow int) int {
	count := 0
	if headerRow < len(column) {
		for _, v := range column[headerRow:] {
			if v != "" {
				count++
			}
		}
	}
	return count + headerRow + 1
}
