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
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Column names of the appconfig worksheet
const (
	ConfigAccount      = "Conto"
	ConfigType         = "Tipo"
	ConfigMacroIncome  = "Macro ENTRATE"
	ConfigMicroIncome  = "Micro ENTRATE"
	ConfigMacroExpense = "Macro USCITE"
	ConfigMicroExpense = "Micro USCITE"
)

var validate = validator.New()

// CategoryConfig lists the valid labels of each cash-flow section
type CategoryConfig struct {
	Accounts     []string `toml:"accounts"`
	Types        []string `toml:"types"`
	MacroIncome  []string `toml:"macro_income" validate:"required,min=1,dive,required"`
	MicroIncome  []string `toml:"micro_income" validate:"dive,required"`
	MacroExpense []string `toml:"macro_expense" validate:"required,min=1,dive,required"`
	MicroExpense []string `toml:"micro_expense" validate:"dive,required"`
}

// ConfigFromRecords builds the category configuration from the appconfig sheet. The first record holds the
// column names; every column whose name contains "Micro USCITE" contributes to the expense micro labels.
// Blank cells are skipped and micro labels are de-duplicated and sorted.
func ConfigFromRecords(records [][]string) (*CategoryConfig, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: appconfig sheet is empty", ErrInvalidConfig)
	}

	header := map[string]int{}
	microExpenseCols := []int{}
	for idx, name := range records[0] {
		name = strings.TrimSpace(name)
		if _, ok := header[name]; !ok {
			header[name] = idx
		}
		if strings.Contains(name, ConfigMicroExpense) {
			microExpenseCols = append(microExpenseCols, idx)
		}
	}

	for _, required := range []string{ConfigAccount, ConfigType, ConfigMacroIncome, ConfigMicroIncome, ConfigMacroExpense} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidConfig, required)
		}
	}

	column := func(cols ...int) []string {
		res := []string{}
		for _, row := range records[1:] {
			for _, col := range cols {
				if v := strings.TrimSpace(cell(row, col)); v != "" {
					res = append(res, v)
				}
			}
		}
		return res
	}

	cfg := &CategoryConfig{
		Accounts:     column(header[ConfigAccount]),
		Types:        column(header[ConfigType]),
		MacroIncome:  column(header[ConfigMacroIncome]),
		MicroIncome:  uniqueSorted(column(header[ConfigMicroIncome])),
		MacroExpense: column(header[ConfigMacroExpense]),
		MicroExpense: uniqueSorted(column(microExpenseCols...)),
	}

	return cfg, nil
}

// LoadConfigFile reads a category configuration from a TOML file
func LoadConfigFile(path string) (*CategoryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &CategoryConfig{}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	cfg.MicroIncome = uniqueSorted(cfg.MicroIncome)
	cfg.MicroExpense = uniqueSorted(cfg.MicroExpense)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that both sections have at least one macro label
func (cfg *CategoryConfig) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	return nil
}

func uniqueSorted(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	res := []string{}
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			res = append(res, v)
		}
	}
	sort.Strings(res)
	return res
}
