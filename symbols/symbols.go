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

// Package symbols converts ledger symbols of the form EXCHANGE:TICKER into the
// flat symbols understood by the market data provider.
package symbols

import "strings"

// exchangeSuffix maps a ledger exchange prefix to the provider suffix
var exchangeSuffix = map[string]string{
	"BIT": ".MI",
	"ETR": ".DE",
	"LSE": ".L",
	"AMS": ".AS",
}

// ToProvider maps a composite ledger symbol to the provider symbol. Symbols
// without a colon or with an unknown exchange are returned unchanged.
func ToProvider(symbol string) string {
	exchange, ticker, found := strings.Cut(symbol, ":")
	if !found {
		return symbol
	}

	if suffix, ok := exchangeSuffix[exchange]; ok {
		return ticker + suffix
	}

	return symbol
}

// ToProviderAll maps every symbol and removes duplicates, keeping the order
// in which each provider symbol was first seen
func ToProviderAll(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	res := make([]string, 0, len(symbols))
	for _, s := range symbols {
		p := ToProvider(s)
		if !seen[p] {
			seen[p] = true
			res = append(res, p)
		}
	}
	return res
}
