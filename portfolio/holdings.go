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

package portfolio

import (
	"sort"
	"time"

	"github.com/penny-vault/pv-ledger/dataframe"
	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/penny-vault/pv-ledger/symbols"
	"github.com/rs/zerolog/log"
)

type lot struct {
	date     time.Time
	quantity float64
}

// lotsBySymbol groups ledger purchases by provider symbol, each list ordered by purchase date
func lotsBySymbol(l *ledger.Ledger) map[string][]lot {
	res := make(map[string][]lot)
	for _, tx := range l.SortedByDate() {
		sym := symbols.ToProvider(tx.Symbol)
		res[sym] = append(res[sym], lot{date: tx.PurchaseDate, quantity: tx.Quantity.InexactFloat64()})
	}
	return res
}

// cumulative samples the running total of lots on dates. Both lots and dates must be sorted ascending; a lot
// counts on every date on or after its purchase date.
func cumulative(lots []lot, dates []time.Time) []float64 {
	res := make([]float64, len(dates))
	total := 0.0
	next := 0
	for idx, dt := range dates {
		for next < len(lots) && !lots[next].date.After(dt) {
			total += lots[next].quantity
			next++
		}
		res[idx] = total
	}
	return res
}

// Holdings reconstructs the quantity held of every symbol in prices on each date of the price index. The
// result has the same dates and columns as prices. Ledger symbols without a price column are skipped.
func Holdings(l *ledger.Ledger, prices *dataframe.DataFrame) *dataframe.DataFrame {
	holdings := dataframe.New(prices.Dates, prices.ColNames...)
	lots := lotsBySymbol(l)

	skipped := []string{}
	for sym := range lots {
		if prices.ColIndex(sym) == -1 {
			skipped = append(skipped, sym)
		}
	}
	if len(skipped) > 0 {
		sort.Strings(skipped)
		log.Warn().Strs("Symbols", skipped).Msg("no prices for symbols; their holdings are omitted")
	}

	for colIdx, sym := range holdings.ColNames {
		holdings.Vals[colIdx] = cumulative(lots[sym], holdings.Dates)
	}

	return holdings
}
