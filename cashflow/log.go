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

package cashflow

import (
	"github.com/rs/zerolog"
)

func (o *Reconciliation) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Section", o.Section.String()).
		Str("Month", o.Month).
		Float64("Master", o.Master).
		Float64("Detail", o.Detail).
		Float64("Uncategorized", o.Uncategorized)
}

func (k KPI) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Income", k.Income).Float64("Expense", k.Expense).Float64("Net", k.Net).Float64("SavingsRate", k.SavingsRate)
}

func (o *Entry) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Section", o.Section.String()).Str("Sheet", o.Sheet).Str("Month", o.Month).Str("Item", o.Cells[ColItem]).Str("Amount", o.Cells[ColAmount])
}
