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

package sheet

// Source reads a single worksheet; it satisfies ledger.Source
type Source struct {
	wb   *Workbook
	name string
}

// Source returns a reader of the named sheet
func (wb *Workbook) Source(name string) *Source {
	return &Source{wb: wb, name: name}
}

func (s *Source) Rows() ([][]string, error) {
	return s.wb.Rows(s.name)
}

// CashFlowSource reads the cash-flow grid and the category configuration; it satisfies cashflow.Source
type CashFlowSource struct {
	wb          *Workbook
	gridSheet   string
	configSheet string
}

// CashFlowSource returns a reader of the cash-flow grid and config sheets
func (wb *Workbook) CashFlowSource(gridSheet, configSheet string) *CashFlowSource {
	return &CashFlowSource{wb: wb, gridSheet: gridSheet, configSheet: configSheet}
}

func (s *CashFlowSource) Grid() ([][]string, error) {
	return s.wb.Rows(s.gridSheet)
}

func (s *CashFlowSource) ConfigRows() ([][]string, error) {
	return s.wb.Rows(s.configSheet)
}
