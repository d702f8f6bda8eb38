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

import "github.com/rs/zerolog"

// MarshalZerologObject implements zerolog.LogObjectMarshaler
func (tx Transaction) MarshalZerologObject(e *zerolog.Event) {
	e.Str("ID", tx.ID.String())
	e.Int("Row", tx.Row)
	e.Str("Symbol", tx.Symbol)
	e.Time("PurchaseDate", tx.PurchaseDate)
	e.Str("Category", tx.Category.String())
	e.Str("Quantity", tx.Quantity.String())
	e.Str("UnitPrice", tx.UnitPrice.String())
	e.Str("CostBasis", tx.CostBasis.String())
}
