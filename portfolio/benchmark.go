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
	"github.com/penny-vault/pv-ledger/dataframe"
)

// Normalize100 rebases every column of df to 100 on the first date where all columns have a value. Gaps are
// forward filled first; dates before the common start are dropped.
func Normalize100(df *dataframe.DataFrame) *dataframe.DataFrame {
	filled := df.ForwardFill()
	start := filled.FirstValid()
	if start == -1 {
		return &dataframe.DataFrame{
			ColNames: append([]string{}, df.ColNames...),
			Vals:     make([][]float64, df.ColCount()),
		}
	}

	res := filled.Trim(filled.Dates[start], filled.End()).Copy()
	for _, col := range res.Vals {
		base := col[0]
		for idx := range col {
			if base == 0 {
				col[idx] = 0
				continue
			}
			col[idx] = col[idx] / base * 100
		}
	}

	return res
}
