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

package dataframe

import "math"

// ForwardFill propagates the last observed value of each column forward across NaN gaps and returns a new
// dataframe. Values are only ever carried from an earlier date to a later one; NaN values that precede the
// first observation of a column are left as NaN.
func (df *DataFrame) ForwardFill() *DataFrame {
	df = df.Copy()

	for _, col := range df.Vals {
		last := math.NaN()
		for rowIdx, v := range col {
			if math.IsNaN(v) {
				col[rowIdx] = last
				continue
			}
			last = v
		}
	}

	return df
}

// FirstValid returns the index of the first row where every column has a value, or -1 when no such row exists
func (df *DataFrame) FirstValid() int {
	for rowIdx := range df.Dates {
		valid := true
		for _, col := range df.Vals {
			if math.IsNaN(col[rowIdx]) {
				valid = false
				break
			}
		}
		if valid {
			return rowIdx
		}
	}
	return -1
}

// LastValid returns the last non-NaN value of the named column along with its row index. If the column
// does not exist or only holds NaN the returned index is -1
func (df *DataFrame) LastValid(colName string) (float64, int) {
	col := df.Column(colName)
	for rowIdx := len(col) - 1; rowIdx >= 0; rowIdx-- {
		if !math.IsNaN(col[rowIdx]) {
			return col[rowIdx], rowIdx
		}
	}
	return math.NaN(), -1
}
