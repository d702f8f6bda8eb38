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

package ledger_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/penny-vault/pv-ledger/ledger"
	"github.com/shopspring/decimal"
)

type staticSource struct {
	rows [][]string
	err  error
}

func (s staticSource) Rows() ([][]string, error) {
	return s.rows, s.err
}

var _ = Describe("Normalize", func() {
	var (
		tz   *time.Location
		rows [][]string
	)

	BeforeEach(func() {
		tz = common.GetTimezone()
		rows = [][]string{
			{"Portafoglio"},
			{"aggiornato al", "01/02/2023"},
			{"Stock / ETF Ticker Symbol", "Nome titolo", "Data Acquisto", "Investment Category", "n. share", "Market Value ACQUISTO", "Cost Base", "Trading Fees", "Actual Market Value (google)", "", "Cost Base"},
			{"ETR:VWCE", "Vanguard FTSE All-World", "03/01/2023", "Stocks", "2", "€ 95,50", "€ 192,00", "€ 1,00", "€ 101,20", "", "999"},
			{"BIT:ENI", "Eni", "10/01/2023", "Azione", "10", "13,20", "133", "1", "14", "", ""},
			{"ETR:VWCE", "", "15/01/2023", "Saveback", "0,1234", "97,00", "15,00", "0", "101,20", "", ""},
			{"", "", "16/01/2023", "Stocks", "1", "1", "1", "0", "", "", ""},
			{"BIT:ENI", "Eni", "31/02/2023", "Azione", "1", "1", "1", "0", "", "", ""},
			{"BIT:ENI", "Eni", "20/01/2023", "Round-up", "0,05", "14,00", "", "", "", "", ""},
			{"BIT:ENI", "Eni", "21/01/2023", "Azione", "abc", "n/a", "", "", "", "", ""},
		}
	})

	It("returns an empty ledger when there are no data rows", func() {
		l, err := ledger.Normalize(rows[:3], tz)
		Expect(err).To(BeNil())
		Expect(l.Len()).To(Equal(0))
	})

	It("fails the whole load when an essential column is missing", func() {
		rows[2][3] = "Categoria"
		l, err := ledger.Normalize(rows, tz)
		Expect(err).To(MatchError(ledger.ErrMissingColumn))
		Expect(err.Error()).To(ContainSubstring("Investment Category"))
		Expect(l.Len()).To(Equal(0))
	})

	Context("with a valid sheet", func() {
		var l *ledger.Ledger

		BeforeEach(func() {
			var err error
			l, err = ledger.Normalize(rows, tz)
			Expect(err).To(BeNil())
		})

		It("drops rows without a symbol or with an invalid date", func() {
			Expect(l.Len()).To(Equal(5))
		})

		It("parses dates in day/month/year order", func() {
			Expect(l.Transactions[0].PurchaseDate).To(Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, tz)))
		})

		It("keeps the first of duplicate columns", func() {
			Expect(l.Transactions[0].LedgerCostBasis.Equal(decimal.NewFromInt(192))).To(BeTrue())
		})

		It("parses locale numbers", func() {
			tx := l.Transactions[0]
			Expect(tx.Quantity.Equal(decimal.NewFromInt(2))).To(BeTrue())
			Expect(tx.UnitPrice.Equal(decimal.RequireFromString("95.5"))).To(BeTrue())
			Expect(tx.Fee.Equal(decimal.NewFromInt(1))).To(BeTrue())
			Expect(tx.CurrentPrice.Equal(decimal.RequireFromString("101.2"))).To(BeTrue())
		})

		It("uses the ledger cost basis for regular purchases", func() {
			Expect(l.Transactions[0].CostBasis.Equal(decimal.NewFromInt(192))).To(BeTrue())
		})

		It("derives the cost basis for saveback", func() {
			tx := l.Transactions[2]
			Expect(tx.Category).To(Equal(ledger.Saveback))
			Expect(tx.CostBasis.Equal(decimal.RequireFromString("11.9698"))).To(BeTrue())
			Expect(tx.LedgerCostBasis.Equal(decimal.NewFromInt(15))).To(BeTrue())
		})

		It("derives the cost basis for round-up", func() {
			tx := l.Transactions[3]
			Expect(tx.Category).To(Equal(ledger.RoundUp))
			Expect(tx.CostBasis.Equal(decimal.RequireFromString("0.7"))).To(BeTrue())
		})

		It("zero fills numbers that do not parse", func() {
			tx := l.Transactions[4]
			Expect(tx.Quantity.IsZero()).To(BeTrue())
			Expect(tx.UnitPrice.IsZero()).To(BeTrue())
		})

		It("records the sheet row and a stable id", func() {
			Expect(l.Transactions[0].Row).To(Equal(4))
			again, _ := ledger.Normalize(rows, tz)
			Expect(again.Transactions[0].ID).To(Equal(l.Transactions[0].ID))
			Expect(l.Transactions[1].ID).ToNot(Equal(l.Transactions[0].ID))
		})

		It("lists symbols and dates", func() {
			Expect(l.Symbols()).To(Equal([]string{"BIT:ENI", "ETR:VWCE"}))
			Expect(l.FirstDate()).To(Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, tz)))
			Expect(l.LastDate()).To(Equal(time.Date(2023, 1, 21, 0, 0, 0, 0, tz)))
			Expect(l.Name("BIT:ENI")).To(Equal("Eni"))
		})

		It("filters transactions by symbol in date order", func() {
			txs := l.ForSymbol("BIT:ENI")
			Expect(txs).To(HaveLen(3))
			Expect(txs[0].PurchaseDate.Before(txs[1].PurchaseDate)).To(BeTrue())
		})

		It("changes hash when the ledger changes", func() {
			h1 := l.Hash()
			rows[3][4] = "3"
			l2, _ := ledger.Normalize(rows, tz)
			Expect(l2.Hash()).ToNot(Equal(h1))
			Expect(l.Hash()).To(Equal(h1))
		})
	})

	It("loads from a source", func() {
		l, err := ledger.Load(staticSource{rows: rows}, tz)
		Expect(err).To(BeNil())
		Expect(l.Len()).To(Equal(5))
	})

	It("returns an empty ledger when the source fails", func() {
		boom := errors.New("boom")
		l, err := ledger.Load(staticSource{err: boom}, tz)
		Expect(err).To(MatchError(boom))
		Expect(l.Len()).To(Equal(0))
	})
})

var _ = Describe("Entries", func() {
	var in ledger.EntryInput

	BeforeEach(func() {
		in = ledger.EntryInput{
			Symbol:   "ETR:VWCE",
			Category: "Stocks",
			Quantity: "1,5",
			Price:    "101,20",
			Date:     time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC),
		}
	})

	It("builds the sheet row", func() {
		entry, err := ledger.BuildEntry(in)
		Expect(err).To(BeNil())
		Expect(entry).To(Equal(map[string]string{
			ledger.ColSymbol:   "ETR:VWCE",
			ledger.ColCategory: "Stocks",
			ledger.ColQuantity: "1,5",
			ledger.ColPrice:    "101,2",
			ledger.ColDate:     "07/03/2023",
			ledger.ColFees:     "0",
		}))
	})

	It("rejects unknown categories", func() {
		in.Category = "Crypto"
		_, err := ledger.BuildEntry(in)
		Expect(err).To(MatchError(ledger.ErrInvalidEntry))
	})

	It("rejects a zero quantity", func() {
		in.Quantity = "0,0"
		_, err := ledger.BuildEntry(in)
		Expect(err).To(MatchError(ledger.ErrInvalidEntry))
	})

	It("rejects a missing price", func() {
		in.Price = ""
		_, err := ledger.BuildEntry(in)
		Expect(err).To(MatchError(ledger.ErrInvalidEntry))
	})

	It("rejects a missing date", func() {
		in.Date = time.Time{}
		_, err := ledger.BuildEntry(in)
		Expect(err).To(MatchError(ledger.ErrInvalidEntry))
	})

	DescribeTable("finding the next empty row",
		func(column []string, expected int) {
			Expect(ledger.NextEmptyRow(column, ledger.HeaderRow)).To(Equal(expected))
		},
		Entry("empty sheet", []string{}, 4),
		Entry("header only", []string{"", "", "Data Acquisto"}, 4),
		Entry("two data rows", []string{"", "", "Data Acquisto", "03/01/2023", "04/01/2023"}, 6),
		Entry("trailing blanks", []string{"", "", "Data Acquisto", "03/01/2023", "", ""}, 5),
	)
})
