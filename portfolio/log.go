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
	"github.com/rs/zerolog"
)

func (o *DrawDown) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Begin", o.Begin).Time("End", o.End).Time("RecoveryDate", o.Recovery).Float64("LossPercent", o.LossPercent)
}

func (report *RiskReport) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Volatility", report.Volatility)
	e.Float64("MaxDrawdown", report.MaxDrawdown)
	e.Time("MaxDrawdownDate", report.MaxDrawdownDate)
	e.Int("NumDrawDowns", len(report.DrawDowns))
	e.Int("NumReturns", report.Returns.Len())
}

func (o *InstrumentStep) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Date", o.Date).
		Str("Quantity", o.Quantity.String()).
		Str("CumQuantity", o.CumQuantity.String()).
		Str("CumCost", o.CumCost.StringFixed(2)).
		Str("PMC", o.PMC.StringFixed(4))
}

func (o *InstrumentSummary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Symbol", o.Symbol).
		Str("Category", o.Category.String()).
		Str("Quantity", o.Quantity.String()).
		Str("Cost", o.Cost.StringFixed(2)).
		Str("PMC", o.PMC.StringFixed(4)).
		Str("Value", o.Value.StringFixed(2)).
		Float64("GainPercent", o.GainPercent)
}
