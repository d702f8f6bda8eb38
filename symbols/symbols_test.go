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

package symbols_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-ledger/symbols"
)

var _ = Describe("Symbols", func() {
	DescribeTable("mapping ledger symbols to provider symbols",
		func(in, expected string) {
			Expect(symbols.ToProvider(in)).To(Equal(expected))
		},
		Entry("Borsa Italiana", "BIT:ENI", "ENI.MI"),
		Entry("Xetra", "ETR:VWCE", "VWCE.DE"),
		Entry("London", "LSE:VUSA", "VUSA.L"),
		Entry("Amsterdam", "AMS:IWDA", "IWDA.AS"),
		Entry("unknown exchange", "NYSE:SPY", "NYSE:SPY"),
		Entry("no exchange", "AAPL", "AAPL"),
		Entry("index symbol", "^GSPC", "^GSPC"),
		Entry("empty", "", ""),
	)

	It("maps a list and removes duplicates", func() {
		Expect(symbols.ToProviderAll([]string{"BIT:ENI", "ETR:VWCE", "BIT:ENI", "AAPL"})).To(Equal([]string{"ENI.MI", "VWCE.DE", "AAPL"}))
	})
})
