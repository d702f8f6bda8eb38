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

package portfolio_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pv-ledger/dataframe"
	"github.com/penny-vault/pv-ledger/portfolio"
)

var _ = Describe("Risk", func() {
	var value *dataframe.DataFrame

	BeforeEach(func() {
		value = series(portfolio.ValueColumn, days(1, 5), 1100, 1100, 900, 1100, 1100)
	})

	It("computes daily returns without the first date", func() {
		returns := portfolio.Returns(value)
		Expect(returns.Dates).To(Equal(days(2, 5)))
		Expect(returns.Vals[0][0]).To(Equal(0.0))
		Expect(returns.Vals[0][1]).To(BeNumerically("~", -0.181818, 1e-6))
		Expect(returns.Vals[0][2]).To(BeNumerically("~", 0.222222, 1e-6))
	})

	It("draws down on the dip and recovers", func() {
		dd := portfolio.Drawdown(value)
		Expect(dd.Vals[0][0]).To(Equal(0.0))
		Expect(dd.Vals[0][1]).To(Equal(0.0))
		Expect(dd.Vals[0][2]).To(BeNumerically("~", -0.181818, 1e-6))
		Expect(dd.Vals[0][3]).To(Equal(0.0))
		Expect(dd.Vals[0][4]).To(Equal(0.0))

		for _, v := range dd.Vals[0] {
			Expect(v).To(BeNumerically("<=", 0))
		}

		maxDD, date := portfolio.MaxDrawdown(dd)
		Expect(maxDD).To(BeNumerically("~", -0.181818, 1e-6))
		Expect(date).To(Equal(day(3)))
	})

	It("reports the drawdown episode", func() {
		episodes := portfolio.AllDrawDowns(value)
		Expect(episodes).To(HaveLen(1))
		Expect(episodes[0].Begin).To(Equal(day(2)))
		Expect(episodes[0].End).To(Equal(day(3)))
		Expect(episodes[0].Recovery).To(Equal(day(4)))
		Expect(episodes[0].LossPercent).To(BeNumerically("~", -0.181818, 1e-6))
	})

	It("keeps an unrecovered episode open", func() {
		value = series(portfolio.ValueColumn, days(1, 4), 100, 120, 90, 100)
		episodes := portfolio.AllDrawDowns(value)
		Expect(episodes).To(HaveLen(1))
		Expect(episodes[0].Recovery.IsZero()).To(BeTrue())
		Expect(episodes[0].LossPercent).To(BeNumerically("~", -0.25, 1e-9))
	})

	It("orders the top drawdowns by loss", func() {
		value = series(portfolio.ValueColumn, days(1, 7), 100, 95, 100, 50, 100, 90, 100)
		top := portfolio.TopDrawDowns(value, 2)
		Expect(top).To(HaveLen(2))
		Expect(top[0].LossPercent).To(BeNumerically("~", -0.5, 1e-9))
		Expect(top[1].LossPercent).To(BeNumerically("~", -0.1, 1e-9))
	})

	It("annualizes volatility with 252 trading days", func() {
		returns := series(portfolio.ReturnsColumn, days(1, 3), 0.01, 0.03, 0.02)
		Expect(portfolio.AnnualizedVolatility(returns)).To(BeNumerically("~", 0.01*math.Sqrt(252), 1e-9))
	})

	It("is NaN with fewer than two returns", func() {
		returns := series(portfolio.ReturnsColumn, days(1, 1), 0.01)
		Expect(math.IsNaN(portfolio.AnnualizedVolatility(returns))).To(BeTrue())
	})

	It("leaves the rolling volatility warm-up NaN", func() {
		vol := portfolio.RollingVolatility(portfolio.Returns(value), 3)
		Expect(vol.Len()).To(Equal(4))
		Expect(math.IsNaN(vol.Vals[0][0])).To(BeTrue())
		Expect(math.IsNaN(vol.Vals[0][1])).To(BeTrue())
		Expect(math.IsNaN(vol.Vals[0][2])).To(BeFalse())
		Expect(math.IsNaN(vol.Vals[0][3])).To(BeFalse())
	})

	It("bundles the risk report", func() {
		report := portfolio.Analyze(value, portfolio.DefaultWindow)
		Expect(report.Returns.Len()).To(Equal(4))
		Expect(report.MaxDrawdownDate).To(Equal(day(3)))
		Expect(report.DrawDowns).To(HaveLen(1))
		for _, v := range report.RollingVolatility.Vals[0] {
			Expect(math.IsNaN(v)).To(BeTrue())
		}
	})

	It("handles an empty value series", func() {
		empty := &dataframe.DataFrame{Dates: []time.Time{}, ColNames: []string{portfolio.ValueColumn}, Vals: [][]float64{{}}}
		report := portfolio.Analyze(empty, portfolio.DefaultWindow)
		Expect(math.IsNaN(report.Volatility)).To(BeTrue())
		Expect(math.IsNaN(report.MaxDrawdown)).To(BeTrue())
		Expect(report.DrawDowns).To(BeEmpty())
	})

	Describe("Normalize100", func() {
		It("rebases on the first fully valid date", func() {
			df := dataframe.Map{
				"A": series("A", days(1, 4), 50, 55, math.NaN(), 60),
				"B": series("B", days(2, 4), 200, 220, 180),
			}.Merge()
			res := portfolio.Normalize100(df)
			Expect(res.Dates).To(Equal(days(2, 4)))
			expected := map[string][]float64{
				"A": {100, 100, 109.090909},
				"B": {100, 110, 90},
			}
			for name, vals := range expected {
				for idx, v := range vals {
					Expect(res.Column(name)[idx]).To(BeNumerically("~", v, 1e-6))
				}
			}
		})

		It("returns an empty result without a common start", func() {
			df := series("A", days(1, 2), math.NaN(), math.NaN())
			Expect(portfolio.Normalize100(df).Len()).To(Equal(0))
		})
	})
})
