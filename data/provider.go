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

// Package data downloads daily closing prices and memoizes them in the
// process cache.
package data

import (
	"context"
	"time"

	"github.com/penny-vault/pv-ledger/dataframe"
)

// Provider is a source of daily closing prices. Close returns one column per provider symbol indexed by
// calendar day at midnight in the configured timezone; symbols the provider does not know are omitted.
type Provider interface {
	Name() string
	Close(ctx context.Context, symbols []string, start time.Time) (*dataframe.DataFrame, error)
}
