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

import "strings"

// Category is the classification of a ledger transaction
type Category int

const (
	Other Category = iota
	Stocks
	ETF
	Bond
	Saveback
	RoundUp
)

// categoryPatterns is checked in order, the first pattern contained in the raw category wins
var categoryPatterns = []struct {
	pattern  string
	category Category
}{
	{"saveback", Saveback},
	{"round-up", RoundUp},
	{"roundup", RoundUp},
	{"azione", Stocks},
	{"bond", Bond},
	{"stocks", ETF},
}

// Labels written to the ledger by the entry form
var CategoryLabels = []string{"Stocks", "Azione", "Bond", "Saveback", "RoundUp", "Altro"}

func (c Category) String() string {
	switch c {
	case Stocks:
		return "Azione"
	case ETF:
		return "ETF"
	case Bond:
		return "Bond"
	case Saveback:
		return "Saveback"
	case RoundUp:
		return "RoundUp"
	default:
		return "Altro"
	}
}

// DerivedCostBasis is true for categories whose cost basis is quantity times price rather than the ledger value
func (c Category) DerivedCostBasis() bool {
	return c == Saveback || c == RoundUp
}

// Classify maps a free-text ledger category to a Category. Matching is case-insensitive and uses the
// priority Saveback, RoundUp, Azione (Stocks), Bond, Stocks (ETF); anything else is Other.
func Classify(raw string) Category {
	lower := strings.ToLower(raw)
	for _, p := range categoryPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.category
		}
	}
	return Other
}

// Traded is true for categories bought on an exchange and shown on the instrument detail page
func (c Category) Traded() bool {
	return c == Stocks || c == ETF || c == Bond
}
