//go:build mage

// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "pvledger"
	commonPkg  = "github.com/penny-vault/pv-ledger/common"
)

var ldflags = "-X " + commonPkg + ".commitHash=$COMMIT_HASH -X " + commonPkg + ".buildDate=$BUILD_DATE"

// allow user to override go executable by running as GOEXE=xxx mage ...
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

var Default = Build

// Build pvledger with the commit and build date stamped into `pvledger version`
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(stampEnv(), goexe, "build", "-o", binaryName, "-ldflags", ldflags, ".")
}

// Run go vet
func Vet() error {
	fmt.Println("Go Vet")
	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %w", err)
	}
	return nil
}

// Run the ginkgo suites of every package
func Test() error {
	mg.Deps(Vet)
	fmt.Println("Go Test")
	if mg.Verbose() {
		return sh.RunV(goexe, "test", "-race", "./...")
	}
	return sh.Run(goexe, "test", "-race", "./...")
}

// Remove the built binary
func Clean() error {
	fmt.Println("Cleaning...")
	return sh.Rm(binaryName)
}

func stampEnv() map[string]string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format("2006-01-02T15:04:05Z0700"),
	}
}
