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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/penny-vault/pv-ledger/dataframe"
)

var _ = Describe("DataFrame math", func() {
	var (
		df *dataframe.DataFrame
		tz *time.Location
	)

	BeforeEach(func() {
		tz = common.GetTimezone()
		df = &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 6, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 7, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 8, 0, 0, 0, 0, tz),
			},
			Vals:     [][]float64{{100, 110, 99, 121, 110}},
			ColNames: []string{"VALUE"},
		}
	})

	It("computes percent change and drops the first row", func() {
		res := df.PctChange()
		Expect(res.Len()).To(Equal(4))
		Expect(res.Dates[0]).To(Equal(df.Dates[1]))
		Expect(res.Vals[0][0]).To(BeNumerically("~", 0.1))
		Expect(res.Vals[0][1]).To(BeNumerically("~", -0.1))
		Expect(res.Vals[0][2]).To(BeNumerically("~", 0.2222222222))
	})

	It("returns an empty frame for percent change of a single row", func() {
		res := df.Tail(1).PctChange()
		Expect(res.Len()).To(Equal(0))
		Expect(res.ColNames).To(Equal([]string{"VALUE"}))
	})

	It("computes the running maximum", func() {
		res := df.CumMax()
		Expect(res.Vals[0]).To(Equal([]float64{100, 110, 110, 121, 121}))
	})

	It("multiplies and divides matching columns", func() {
		other := df.MulScalar(2)
		Expect(other.Vals[0]).To(Equal([]float64{200, 220, 198, 242, 220}))
		Expect(df.Mul(other).Vals[0][0]).To(Equal(20000.0))
		Expect(other.Div(df).Vals[0]).To(Equal([]float64{2, 2, 2, 2, 2}))
	})

	It("sets columns missing from the other frame to NaN on multiply", func() {
		other := &dataframe.DataFrame{Dates: df.Dates, ColNames: []string{"OTHER"}, Vals: [][]float64{{1, 1, 1, 1, 1}}}
		res := df.Mul(other)
		Expect(math.IsNaN(res.Vals[0][0])).To(BeTrue())
	})

	It("adds a scalar", func() {
		Expect(df.AddScalar(-100).Vals[0]).To(Equal([]float64{0, 10, -1, 21, 10}))
	})

	Context("when computing a rolling standard deviation", func() {
		It("has NaN during the warm-up period", func() {
			res := df.RollingStdDev(3, 1)
			Expect(math.IsNaN(res.Vals[0][0])).To(BeTrue())
			Expect(math.IsNaN(res.Vals[0][1])).To(BeTrue())
			Expect(res.Vals[0][2]).To(BeNumerically("~", 6.0827625, 1e-6))
		})

		It("scales the result", func() {
			res := df.RollingStdDev(2, 2)
			Expect(res.Vals[0][1]).To(BeNumerically("~", 2*7.0710678, 1e-6))
		})

		It("is all NaN for an invalid window", func() {
			res := df.RollingStdDev(1, 1)
			for _, v := range res.Vals[0] {
				Expect(math.IsNaN(v)).To(BeTrue())
			}
		})

		It("is all NaN when the window is longer than the series", func() {
			res := df.RollingStdDev(10, 1)
			Expect(res.Len()).To(Equal(5))
			for _, v := range res.Vals[0] {
				Expect(math.IsNaN(v)).To(BeTrue())
			}
		})
	})
})
