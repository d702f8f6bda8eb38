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

	"github.com/rs/zerolog/log"
)

var essentialColumns = []string{ColSymbol, ColDate, ColCategory}

// Source provides the raw values of the Holding worksheet, one slice per sheet row
type Source interface {
	Rows() ([][]string, error)
}

type header map[string]int

func newHeader(cells []string) header {
	h := make(header, len(cells))
	for idx, name := range cells {
		if name == "" {
			continue
		}
		// duplicate column names keep the first occurrence
		if _, ok := h[name]; !ok {
			h[name] = idx
		}
	}
	return h
}

func (h header) cell(row []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Load reads the worksheet from src and normalizes it
func Load(src Source, tz *time.Location) (*Ledger, error) {
	rows, err := src.Rows()
	if err != nil {
		log.Error().Err(err).Msg("could not read ledger rows")
		return &Ledger{}, err
	}
	return Normalize(rows, tz)
}

// Normalize converts the raw worksheet values into a Ledger. The first HeaderRow-1 rows are reserved, row
// HeaderRow holds the column names and data follows. A missing essential column fails the whole load with
// ErrMissingColumn and an empty ledger. Malformed rows never fail the load: rows without a symbol or with
// an unparsable date are dropped and unparsable numbers become 0.
func Normalize(rows [][]string, tz *time.Location) (*Ledger, error) {
	if len(rows) <= HeaderRow {
		log.Info().Int("NumRows", len(rows)).Msg("ledger has no data rows")
		return &Ledger{}, nil
	}

	hdr := newHeader(rows[HeaderRow-1])
	for _, col := range essentialColumns {
		if _, ok := hdr[col]; !ok {
			log.Error().Str("Column", col).Msg("essential column not found in ledger")
			return &Ledger{}, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	transactions := make([]Transaction, 0, len(rows)-HeaderRow)
	for idx, row := range rows[HeaderRow:] {
		sheetRow := idx + HeaderRow + 1

		symbol := strings.TrimSpace(hdr.cell(row, ColSymbol))
		if symbol == "" {
			continue
		}

		dateStr := strings.TrimSpace(hdr.cell(row, ColDate))
		purchaseDate, err := time.ParseInLocation(DateFormat, dateStr, tz)
		if err != nil {
			log.Debug().Int("Row", sheetRow).Str("Symbol", symbol).Str("Date", dateStr).Msg("dropping row with invalid date")
			continue
		}

		rawCategory := hdr.cell(row, ColCategory)
		tx := Transaction{
			ID:              newTransactionID(sheetRow, symbol),
			Row:             sheetRow,
			Symbol:          symbol,
			Name:            strings.TrimSpace(hdr.cell(row, ColName)),
			PurchaseDate:    purchaseDate,
			Quantity:        ParseAmountDecimal(hdr.cell(row, ColQuantity)),
			UnitPrice:       ParseAmountDecimal(hdr.cell(row, ColPrice)),
			Fee:             ParseAmountDecimal(hdr.cell(row, ColFees)),
			LedgerCostBasis: ParseAmountDecimal(hdr.cell(row, ColCostBasis)),
			CurrentPrice:    ParseAmountDecimal(hdr.cell(row, ColCurrentPrice)),
			Category:        Classify(rawCategory),
			RawCategory:     rawCategory,
		}

		tx.CostBasis = tx.LedgerCostBasis
		if tx.Category.DerivedCostBasis() {
			tx.CostBasis = tx.Quantity.Mul(tx.UnitPrice)
		}

		log.Trace().Object("Transaction", tx).Msg("normalized ledger row")
		transactions = append(transactions, tx)
	}

	log.Debug().Int("NumRows", len(rows)-HeaderRow).Int("NumTransactions", len(transactions)).Msg("ledger normalized")
	return &Ledger{Transactions: transactions}, nil
}
