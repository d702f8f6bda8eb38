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

// Package portfolio reconstructs the daily value of a ledger backed portfolio
// and derives its cost basis, average cost price and risk measures.
package portfolio

import (
	"context"
	"errors"
	"time"

	"github.com/penny-vault/pv-ledger/dataframe"
)

const (
	ValueColumn     = "VALUE"
	CostBasisColumn = "COST_BASIS"
	DrawdownColumn  = "DRAWDOWN"
	ReturnsColumn   = "RETURNS"
	VolatilityCol   = "VOLATILITY"
	TradingDays     = 252
	DefaultWindow   = 30
)

var (
	ErrNoTransactions = errors.New("no transactions")
	ErrNoPrices       = errors.New("no prices available")
)

// PriceSource supplies closing prices for provider symbols from start until today. Symbols without data are
// omitted from the result.
type PriceSource interface {
	Close(ctx context.Context, symbols []string, start time.Time) (*dataframe.DataFrame, error)
}

func emptySeries(name string) *dataframe.DataFrame {
	return &dataframe.DataFrame{
		Dates:    []time.Time{},
		ColNames: []string{name},
		Vals:     [][]float64{{}},
	}
}
