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

package cashflow_test

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pv-ledger/cashflow"
)

var grid = [][]string{
	{"", "Riepilogo", "", ""},
	{"", "", "", ""},
	{"", "Macro ENTRATE", "FEB/2024", "GEN/2024", "note"},
	{"", "Stipendio", "€ 1.500,00", "€ 1.400,00"},
	{"", "Bonus", "", "€ 100,00"},
	{"", "Extra", "x", "€ 50,00"},
	{"", "TOTALE ENTRATE", "€ 1.500,00", "€ 1.550,00"},
	{"", "Casa", "€ 600,00", "€ 600,00"},
	{"", "Spesa", "€ 200,00", "€ 250,50"},
	{"", "Affitto", "€ 600,00", "€ 600,00"},
	{"", "TOTALE USCITE", "€ 800,00", "€ 850,50"},
}

var config = &cashflow.CategoryConfig{
	MacroIncome:  []string{"Stipendio", "Bonus", "Mancante"},
	MicroIncome:  []string{"Extra"},
	MacroExpense: []string{"Casa", "Spesa"},
	MicroExpense: []string{"Affitto"},
}

type staticSource struct {
	grid    [][]string
	records [][]string
	err     error
}

func (s *staticSource) Grid() ([][]string, error) {
	return s.grid, s.err
}

func (s *staticSource) ConfigRows() ([][]string, error) {
	return s.records, nil
}

var _ = Describe("Cashflow", func() {
	Describe("Parse", func() {
		It("extracts months in calendar order", func() {
			cf, err := cashflow.Parse(grid, config)
			Expect(err).To(BeNil())
			Expect(cf.Months).To(Equal([]string{"GEN/2024", "FEB/2024"}))
		})

		It("extracts every configured label that has a row", func() {
			cf, err := cashflow.Parse(grid, config)
			Expect(err).To(BeNil())
			Expect(cf.MacroIncome.Rows).To(HaveLen(2))
			Expect(cf.MacroIncome.Row("Stipendio").Values).To(Equal([]float64{1400, 1500}))
			Expect(cf.MacroIncome.Row("Bonus").Values).To(Equal([]float64{100, 0}))
			Expect(cf.MacroIncome.Row("Mancante")).To(BeNil())
			Expect(cf.MicroIncome.Row("Extra").Values).To(Equal([]float64{50, 0}))
			Expect(cf.MacroExpense.Row("Spesa").Values).To(Equal([]float64{250.5, 200}))
		})

		It("uses the categorized rows for totals", func() {
			cf, err := cashflow.Parse(grid, config)
			Expect(err).To(BeNil())
			Expect(cf.TotalIncome).To(Equal(map[string]float64{"GEN/2024": 1500, "FEB/2024": 1500}))
			Expect(cf.TotalExpense).To(Equal(map[string]float64{"GEN/2024": 850.5, "FEB/2024": 800}))
			Expect(cf.MasterIncome["GEN/2024"]).To(Equal(1550.0))
		})

		It("reports uncategorized amounts", func() {
			cf, err := cashflow.Parse(grid, config)
			Expect(err).To(BeNil())
			Expect(cf.Reconciliations).To(HaveLen(1))
			rec := cf.Reconciliations[0]
			Expect(rec.Section).To(Equal(cashflow.Income))
			Expect(rec.Month).To(Equal("GEN/2024"))
			Expect(rec.Uncategorized).To(BeNumerically("~", 50, 1e-9))
		})

		It("surfaces a 20 unit gap between detail and master totals", func() {
			small := [][]string{
				{"", "Macro ENTRATE", "GEN/2024"},
				{"", "Stipendio", "80"},
				{"", "TOTALE ENTRATE", "100"},
			}
			cf, err := cashflow.Parse(small, &cashflow.CategoryConfig{MacroIncome: []string{"Stipendio"}})
			Expect(err).To(BeNil())
			Expect(cf.TotalIncome["GEN/2024"]).To(Equal(80.0))
			Expect(cf.Reconciliations).To(HaveLen(1))
			Expect(cf.Reconciliations[0].Uncategorized).To(Equal(20.0))

			kpi := cashflow.KPIs(cf, cf.Months)
			Expect(kpi.Income).To(Equal(80.0))
		})

		It("tolerates differences within a cent", func() {
			small := [][]string{
				{"", "Macro ENTRATE", "GEN/2024"},
				{"", "Stipendio", "100,005"},
				{"", "TOTALE ENTRATE", "100"},
			}
			cf, err := cashflow.Parse(small, &cashflow.CategoryConfig{MacroIncome: []string{"Stipendio"}})
			Expect(err).To(BeNil())
			Expect(cf.Reconciliations).To(BeEmpty())
		})

		It("skips reconciliation without a master row", func() {
			small := [][]string{
				{"", "Macro ENTRATE", "GEN/2024"},
				{"", "Stipendio", "80"},
			}
			cf, err := cashflow.Parse(small, &cashflow.CategoryConfig{MacroIncome: []string{"Stipendio"}})
			Expect(err).To(BeNil())
			Expect(cf.MasterIncome).To(BeNil())
			Expect(cf.Reconciliations).To(BeEmpty())
		})

		It("resolves a label shared by both sections to the row of each section", func() {
			shared := [][]string{
				{"", "Macro ENTRATE", "GEN/2024"},
				{"", "Stipendio", "1000"},
				{"", "Altro", "30"},
				{"", "TOTALE ENTRATE", "1030"},
				{"", "Macro USCITE", "GEN/2024"},
				{"", "Casa", "400"},
				{"", "Altro", "75"},
				{"", "TOTALE USCITE", "475"},
			}
			cf, err := cashflow.Parse(shared, &cashflow.CategoryConfig{
				MacroIncome:  []string{"Stipendio", "Altro"},
				MacroExpense: []string{"Casa", "Altro"},
			})
			Expect(err).To(BeNil())
			Expect(cf.MacroIncome.Row("Altro").Values).To(Equal([]float64{30}))
			Expect(cf.MacroExpense.Row("Altro").Values).To(Equal([]float64{75}))
			Expect(cf.TotalExpense["GEN/2024"]).To(Equal(475.0))
			Expect(cf.Reconciliations).To(BeEmpty())
		})

		It("looks up expense labels below the income total without an expense header", func() {
			shared := [][]string{
				{"", "Macro ENTRATE", "GEN/2024"},
				{"", "Altro", "30"},
				{"", "TOTALE ENTRATE", "30"},
				{"", "Altro", "75"},
				{"", "TOTALE USCITE", "75"},
			}
			cf, err := cashflow.Parse(shared, &cashflow.CategoryConfig{
				MacroIncome:  []string{"Altro"},
				MacroExpense: []string{"Altro"},
			})
			Expect(err).To(BeNil())
			Expect(cf.MacroIncome.Row("Altro").Values).To(Equal([]float64{30}))
			Expect(cf.MacroExpense.Row("Altro").Values).To(Equal([]float64{75}))
		})

		It("fails when the header row is missing", func() {
			cf, err := cashflow.Parse([][]string{{"", "ENTRATE"}}, config)
			Expect(cf).To(BeNil())
			Expect(errors.Is(err, cashflow.ErrSentinelNotFound)).To(BeTrue())
		})
	})

	Describe("Load", func() {
		It("reads config and grid from the source", func() {
			src := &staticSource{
				grid: grid,
				records: [][]string{
					{"Conto", "Tipo", "Macro ENTRATE", "Micro ENTRATE", "Macro USCITE", "Micro USCITE"},
					{"Banca", "Fisso", "Stipendio", "Extra", "Casa", "Affitto"},
					{"", "", "", "", "Spesa", ""},
				},
			}
			cf, cfg, err := cashflow.Load(src)
			Expect(err).To(BeNil())
			Expect(cfg.MacroExpense).To(Equal([]string{"Casa", "Spesa"}))
			Expect(cf.MacroExpense.Rows).To(HaveLen(2))
		})

		It("propagates grid errors", func() {
			src := &staticSource{
				err:     errors.New("boom"),
				records: [][]string{{"Conto", "Tipo", "Macro ENTRATE", "Micro ENTRATE", "Macro USCITE"}},
			}
			_, _, err := cashflow.Load(src)
			Expect(err).NotTo(BeNil())
		})
	})

	Describe("Months", func() {
		It("sorts labels by year then month", func() {
			sorted := cashflow.SortMonths([]string{"GEN/2025", "DIC/2024", "MAR/2024", "XYZ/2024"})
			Expect(sorted).To(Equal([]string{"XYZ/2024", "MAR/2024", "DIC/2024", "GEN/2025"}))
		})

		It("lists years most recent first", func() {
			Expect(cashflow.Years([]string{"GEN/2023", "FEB/2025", "MAR/2023"})).To(Equal([]int{2025, 2023}))
		})

		It("formats month labels", func() {
			Expect(cashflow.MonthLabel(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))).To(Equal("OTT/2026"))
		})

		It("filters months by year", func() {
			Expect(cashflow.MonthsOfYear([]string{"DIC/2023", "GEN/2024"}, 2024)).To(Equal([]string{"GEN/2024"}))
		})
	})

	Describe("QuickView", func() {
		months := []string{"OTT/2025", "NOV/2025", "DIC/2025", "GEN/2026", "FEB/2026"}
		now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

		DescribeTable("selects months",
			func(view cashflow.View, at time.Time, expected []string) {
				Expect(cashflow.QuickView(view, months, at)).To(Equal(expected))
			},
			Entry("all", cashflow.ViewAll, now, months),
			Entry("current month", cashflow.ViewCurrentMonth, now, []string{"GEN/2026"}),
			Entry("current month missing", cashflow.ViewCurrentMonth, now.AddDate(1, 0, 0), []string{}),
			Entry("last 3 ending at current", cashflow.ViewLast3, now, []string{"NOV/2025", "DIC/2025", "GEN/2026"}),
			Entry("last 3 ending at last available", cashflow.ViewLast3, now.AddDate(1, 0, 0), []string{"DIC/2025", "GEN/2026", "FEB/2026"}),
			Entry("last 12 clipped", cashflow.ViewLast12, now, []string{"OTT/2025", "NOV/2025", "DIC/2025", "GEN/2026"}),
		)

		It("parses view names", func() {
			v, ok := cashflow.ParseView("last6")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(cashflow.ViewLast6))
			_, ok = cashflow.ParseView("yesterday")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("KPIs", func() {
		It("computes the savings rate", func() {
			cf, err := cashflow.Parse(grid, config)
			Expect(err).To(BeNil())
			kpi := cashflow.KPIs(cf, []string{"FEB/2024"})
			Expect(kpi.Income).To(Equal(1500.0))
			Expect(kpi.Expense).To(Equal(800.0))
			Expect(kpi.Net).To(Equal(700.0))
			Expect(kpi.SavingsRate).To(BeNumerically("~", 46.6667, 1e-4))
		})

		It("has a zero savings rate without income", func() {
			cf := &cashflow.CashFlow{
				TotalIncome:  map[string]float64{"GEN/2024": 0},
				TotalExpense: map[string]float64{"GEN/2024": 100},
			}
			kpi := cashflow.KPIs(cf, []string{"GEN/2024"})
			Expect(kpi.Net).To(Equal(-100.0))
			Expect(kpi.SavingsRate).To(Equal(0.0))
		})

		It("breaks down non-zero categories largest first", func() {
			cf, err := cashflow.Parse(grid, config)
			Expect(err).To(BeNil())
			// Bonus only has an amount in GEN/2024
			slices := cashflow.Breakdown(cf.MacroIncome, []string{"FEB/2024"})
			Expect(slices).To(Equal([]cashflow.Slice{{Label: "Stipendio", Amount: 1500}}))

			slices = cashflow.Breakdown(cf.MacroExpense, cf.Months)
			Expect(slices[0].Label).To(Equal("Casa"))
			Expect(slices[1].Amount).To(Equal(450.5))
		})
	})

	Describe("Config", func() {
		It("builds the config from appconfig records", func() {
			cfg, err := cashflow.ConfigFromRecords([][]string{
				{"Conto", "Tipo", "Macro ENTRATE", "Micro ENTRATE", "Macro USCITE", "Micro USCITE Casa", "Micro USCITE Auto"},
				{"Banca", "Fisso", "Stipendio", "Premi", "Casa", "Mutuo", "Benzina"},
				{"Carta", "", "Bonus", "Premi", "Auto", "Bollette", ""},
				{"", "", "", "Affitti", "", "", "Assicurazione"},
			})
			Expect(err).To(BeNil())
			Expect(cfg.Accounts).To(Equal([]string{"Banca", "Carta"}))
			Expect(cfg.Types).To(Equal([]string{"Fisso"}))
			Expect(cfg.MacroIncome).To(Equal([]string{"Stipendio", "Bonus"}))
			Expect(cfg.MicroIncome).To(Equal([]string{"Affitti", "Premi"}))
			Expect(cfg.MicroExpense).To(Equal([]string{"Assicurazione", "Benzina", "Bollette", "Mutuo"}))
		})

		It("rejects records without required columns", func() {
			_, err := cashflow.ConfigFromRecords([][]string{{"Conto", "Tipo"}})
			Expect(errors.Is(err, cashflow.ErrInvalidConfig)).To(BeTrue())
		})

		It("loads a TOML file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "categories.toml")
			content := `accounts = ["Banca"]
macro_income = ["Stipendio"]
micro_income = ["Premi", "Affitti", "Premi"]
macro_expense = ["Casa"]
micro_expense = ["Mutuo"]
`
			Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
			cfg, err := cashflow.LoadConfigFile(path)
			Expect(err).To(BeNil())
			Expect(cfg.MicroIncome).To(Equal([]string{"Affitti", "Premi"}))
			Expect(cfg.MacroExpense).To(Equal([]string{"Casa"}))
		})

		It("rejects a TOML file without macro labels", func() {
			path := filepath.Join(GinkgoT().TempDir(), "categories.toml")
			Expect(os.WriteFile(path, []byte(`accounts = ["Banca"]`), 0o600)).To(Succeed())
			_, err := cashflow.LoadConfigFile(path)
			Expect(errors.Is(err, cashflow.ErrInvalidConfig)).To(BeTrue())
		})
	})
})
