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

	"github.com/shopspring/decimal"
)

var localeReplacer = strings.NewReplacer("€", "", ".", "", ",", ".", "%", "")

// ParseAmountDecimal converts a locale formatted ledger value such as "€ 1.234,56" or "12,5%" into a
// decimal. Currency and percent symbols are removed, '.' is treated as the thousands separator and ','
// as the decimal separator. Values that cannot be parsed are 0.
func ParseAmountDecimal(s string) decimal.Decimal {
	clean := strings.TrimSpace(localeReplacer.Replace(s))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmount is ParseAmountDecimal returning a float64
func ParseAmount(s string) float64 {
	return ParseAmountDecimal(s).InexactFloat64()
}

// ValidateAmount parses a number typed by the user. An empty string is ErrEmptyAmount and text that is not
// a number is ErrInvalidAmount; only ',' is accepted as decimal separator replacement, thousands separators
// are not.
func ValidateAmount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return &d, nil
}

// FormatAmount renders a decimal with ',' as decimal separator, the format used when writing to the sheet
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}
