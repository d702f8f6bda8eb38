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
	"math"
	"time"

	"github.com/penny-vault/pv-ledger/dataframe"
	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/shopspring/decimal"
)

// InstrumentStep is the state of a single instrument after one purchase
type InstrumentStep struct {
	Date          time.Time
	Quantity      decimal.Decimal
	Cost          decimal.Decimal
	CumQuantity   decimal.Decimal
	CumCost       decimal.Decimal
	PMC           decimal.Decimal
	Value         decimal.Decimal
	TransactionID string
}

// InstrumentSummary reports the totals of an instrument after its last purchase
type InstrumentSummary struct {
	Symbol      string
	Name        string
	Category    ledger.Category
	Quantity    decimal.Decimal
	Cost        decimal.Decimal
	PMC         decimal.Decimal
	LatestPrice decimal.Decimal
	Value       decimal.Decimal
	Gain        decimal.Decimal
	GainPercent float64
}

// PMC is the average cost price: cost divided by quantity, or 0 when quantity is 0
func PMC(cost, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return cost.Div(quantity)
}

// InstrumentHistory walks the purchases of one instrument in date order. Each step carries the running
// quantity, running cost and PMC. Value applies latestPrice to the running quantity of every step; it is
// not a historical valuation.
func InstrumentHistory(txs []ledger.Transaction, latestPrice decimal.Decimal) []*InstrumentStep {
	sorted := (&ledger.Ledger{Transactions: txs}).SortedByDate()
	steps := make([]*InstrumentStep, 0, len(sorted))

	cumQty := decimal.Zero
	cumCost := decimal.Zero
	for _, tx := range sorted {
		cumQty = cumQty.Add(tx.Quantity)
		cumCost = cumCost.Add(tx.CostBasis)
		steps = append(steps, &InstrumentStep{
			Date:          tx.PurchaseDate,
			Quantity:      tx.Quantity,
			Cost:          tx.CostBasis,
			CumQuantity:   cumQty,
			CumCost:       cumCost,
			PMC:           PMC(cumCost, cumQty),
			Value:         cumQty.Mul(latestPrice),
			TransactionID: tx.ID.String(),
		})
	}

	return steps
}

// Summarize reduces an instrument history to its final totals
func Summarize(symbol string, txs []ledger.Transaction, latestPrice decimal.Decimal) *InstrumentSummary {
	summary := &InstrumentSummary{
		Symbol:      symbol,
		LatestPrice: latestPrice,
	}

	if len(txs) > 0 {
		summary.Category = txs[0].Category
		summary.Name = txs[0].Name
	}

	steps := InstrumentHistory(txs, latestPrice)
	if len(steps) == 0 {
		return summary
	}

	last := steps[len(steps)-1]
	summary.Quantity = last.CumQuantity
	summary.Cost = last.CumCost
	summary.PMC = last.PMC
	summary.Value = last.Value
	summary.Gain = last.Value.Sub(last.CumCost)
	if !last.CumCost.IsZero() {
		summary.GainPercent = summary.Gain.Div(last.CumCost).InexactFloat64()
	}

	return summary
}

// LatestPrice returns the last known close of providerSymbol. When prices hold no value for the symbol the
// most recent ledger snapshot price is used instead; if neither exists the result is 0.
func LatestPrice(prices *dataframe.DataFrame, providerSymbol string, txs []ledger.Transaction) decimal.Decimal {
	if prices != nil {
		if last, idx := prices.LastValid(providerSymbol); idx != -1 && !math.IsInf(last, 0) {
			return decimal.NewFromFloat(last)
		}
	}

	sorted := (&ledger.Ledger{Transactions: txs}).SortedByDate()
	for idx := len(sorted) - 1; idx >= 0; idx-- {
		if sorted[idx].CurrentPrice.IsPositive() {
			return sorted[idx].CurrentPrice
		}
	}

	return decimal.Zero
}
