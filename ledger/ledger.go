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
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/shopspring/decimal"
)

// Column names of the Holding worksheet
const (
	ColSymbol          = "Stock / ETF Ticker Symbol"
	ColName            = "Nome titolo"
	ColDate            = "Data Acquisto"
	ColCategory        = "Investment Category"
	ColQuantity        = "n. share"
	ColPrice           = "Market Value ACQUISTO"
	ColCurrentPrice    = "Actual Market Value (google)"
	ColRealValue       = "Valore Titoli Real"
	ColGainToday       = "Guadagno Oggi"
	ColChangePercent   = "% variazione"
	ColCostBasis       = "Cost Base"
	ColFees            = "Trading Fees"
	DateFormat         = "02/01/2006"
	HeaderRow          = 3 // 1-based sheet row holding the column names
	ReferenceColumn    = ColDate
	transactionIDSpace = "6f1c2b9e-3d4a-5b6c-8d7e-9f0a1b2c3d4e"
)

var (
	ErrMissingColumn = errors.New("essential column not found")
	ErrEmptyAmount   = errors.New("amount is empty")
	ErrInvalidAmount = errors.New("amount is not a number")
	ErrInvalidEntry  = errors.New("invalid transaction entry")
)

var transactionNamespace = uuid.MustParse(transactionIDSpace)

// Transaction is a single normalized purchase from the ledger
type Transaction struct {
	ID              uuid.UUID
	Row             int
	Symbol          string
	Name            string
	PurchaseDate    time.Time
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	Fee             decimal.Decimal
	CostBasis       decimal.Decimal
	LedgerCostBasis decimal.Decimal
	CurrentPrice    decimal.Decimal
	Category        Category
	RawCategory     string
}

// Ledger is the ordered list of normalized transactions loaded from one read of the Holding sheet
type Ledger struct {
	Transactions []Transaction
}

func newTransactionID(row int, symbol string) uuid.UUID {
	return uuid.NewSHA1(transactionNamespace, []byte(fmt.Sprintf("%d:%s", row, symbol)))
}

// Len returns the number of transactions in the ledger
func (l *Ledger) Len() int {
	return len(l.Transactions)
}

// Symbols returns the distinct ledger symbols sorted alphabetically
func (l *Ledger) Symbols() []string {
	seen := make(map[string]bool)
	res := []string{}
	for _, tx := range l.Transactions {
		if !seen[tx.Symbol] {
			seen[tx.Symbol] = true
			res = append(res, tx.Symbol)
		}
	}
	sort.Strings(res)
	return res
}

// FirstDate returns the earliest purchase date or the zero time for an empty ledger
func (l *Ledger) FirstDate() time.Time {
	var first time.Time
	for _, tx := range l.Transactions {
		if first.IsZero() || tx.PurchaseDate.Before(first) {
			first = tx.PurchaseDate
		}
	}
	return first
}

// LastDate returns the latest purchase date or the zero time for an empty ledger
func (l *Ledger) LastDate() time.Time {
	var last time.Time
	for _, tx := range l.Transactions {
		if tx.PurchaseDate.After(last) {
			last = tx.PurchaseDate
		}
	}
	return last
}

// SortedByDate returns a copy of the transactions ordered by purchase date. Transactions on the same date keep
// their ledger order.
func (l *Ledger) SortedByDate() []Transaction {
	res := make([]Transaction, len(l.Transactions))
	copy(res, l.Transactions)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].PurchaseDate.Before(res[j].PurchaseDate)
	})
	return res
}

// ForSymbol returns the transactions of a single symbol ordered by purchase date
func (l *Ledger) ForSymbol(symbol string) []Transaction {
	res := []Transaction{}
	for _, tx := range l.SortedByDate() {
		if tx.Symbol == symbol {
			res = append(res, tx)
		}
	}
	return res
}

// Name returns the descriptive name recorded for symbol, if any
func (l *Ledger) Name(symbol string) string {
	for _, tx := range l.Transactions {
		if tx.Symbol == symbol && tx.Name != "" {
			return tx.Name
		}
	}
	return ""
}

// Hash identifies the content of the ledger; two ledgers with the same transactions have the same hash
func (l *Ledger) Hash() string {
	parts := make([]string, 0, len(l.Transactions)*5)
	for _, tx := range l.Transactions {
		parts = append(parts,
			tx.Symbol,
			tx.PurchaseDate.Format(DateFormat),
			tx.Quantity.String(),
			tx.UnitPrice.String(),
			tx.CostBasis.String(),
		)
	}
	return common.CacheKey(parts...)
}
