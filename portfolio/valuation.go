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
	"context"
	"math"
	"time"

	"github.com/penny-vault/pv-ledger/dataframe"
	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/penny-vault/pv-ledger/symbols"
	"github.com/rs/zerolog/log"
)

// Value multiplies holdings by forward filled prices and sums across symbols. Prices are never back filled so
// a symbol contributes nothing before its first observed close. Leading dates whose value is <= 0 are
// removed; later zero or negative values are kept.
func Value(holdings, prices *dataframe.DataFrame) *dataframe.DataFrame {
	if prices.Len() == 0 || prices.ColCount() == 0 {
		return emptySeries(ValueColumn)
	}

	filled := prices.ForwardFill()
	value := holdings.Mul(filled).Sum(ValueColumn)
	return trimLeading(value)
}

// trimLeading drops rows from the front of a single column series until the first value > 0
func trimLeading(df *dataframe.DataFrame) *dataframe.DataFrame {
	col := df.Vals[0]
	start := 0
	for start < len(col) && (col[start] <= 0 || math.IsNaN(col[start])) {
		start++
	}

	if start == len(col) {
		return emptySeries(df.ColNames[0])
	}
	return df.Trim(df.Dates[start], df.End())
}

// PortfolioValue downloads prices for every ledger symbol starting at the first purchase and returns the
// daily portfolio value. Purchase dates are added to the price index so that purchases made on non-trading
// days are visible. If the price source fails or has no data an empty series is returned; callers must treat
// an empty series as unavailable.
func PortfolioValue(ctx context.Context, src PriceSource, l *ledger.Ledger) *dataframe.DataFrame {
	if l.Len() == 0 {
		return emptySeries(ValueColumn)
	}

	providerSymbols := symbols.ToProviderAll(l.Symbols())
	subLog := log.With().Strs("Symbols", providerSymbols).Time("Start", l.FirstDate()).Logger()

	prices, err := src.Close(ctx, providerSymbols, l.FirstDate())
	if err != nil {
		subLog.Warn().Err(err).Msg("price download failed; portfolio value unavailable")
		return emptySeries(ValueColumn)
	}

	if prices == nil || prices.Len() == 0 || prices.ColCount() == 0 {
		subLog.Warn().Err(ErrNoPrices).Msg("portfolio value unavailable")
		return emptySeries(ValueColumn)
	}

	txDates := make([]time.Time, 0, l.Len())
	for _, tx := range l.Transactions {
		txDates = append(txDates, tx.PurchaseDate)
	}
	prices = prices.Union(txDates)

	holdings := Holdings(l, prices)
	value := Value(holdings, prices)
	subLog.Debug().Int("NumDays", value.Len()).Msg("computed portfolio value")
	return value
}

// CostBasis is the running total of cost basis in purchase order, one row per distinct purchase date holding
// the total at the end of that day
func CostBasis(l *ledger.Ledger) *dataframe.DataFrame {
	res := emptySeries(CostBasisColumn)

	total := 0.0
	for _, tx := range l.SortedByDate() {
		total += tx.CostBasis.InexactFloat64()
		last := len(res.Dates) - 1
		if last >= 0 && res.Dates[last].Equal(tx.PurchaseDate) {
			res.Vals[0][last] = total
			continue
		}
		res.InsertRow(tx.PurchaseDate, total)
	}

	return res
}

// CostBasisOn samples the cost basis step curve on dates, for comparison with a value series
func CostBasisOn(l *ledger.Ledger, dates []time.Time) *dataframe.DataFrame {
	lots := make([]lot, 0, l.Len())
	for _, tx := range l.SortedByDate() {
		lots = append(lots, lot{date: tx.PurchaseDate, quantity: tx.CostBasis.InexactFloat64()})
	}

	res := dataframe.New(dates, CostBasisColumn)
	res.Vals[0] = cumulative(lots, res.Dates)
	return res
}
