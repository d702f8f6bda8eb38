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


package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// set with -ldflags by the magefile; when empty the VCS stamp of the go toolchain is used
var (
	commitHash string
	buildDate  string
)

// Version is the SemVer 2.0.0 version of pvledger
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix == "" {
		return s
	}

	s += "-" + v.Suffix
	if commit, _ := buildStamp(); commit != "" {
		s += "+" + strings.ToLower(commit)
	}
	return s
}

// buildStamp returns the commit and build date. Values from ldflags take precedence over the vcs.revision
// and vcs.time settings embedded by `go build`.
func buildStamp() (commit, date string) {
	commit, date = commitHash, buildDate
	if commit != "" && date != "" {
		return
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == "" && len(setting.Value) >= 7 {
				commit = setting.Value[:7]
			}
		case "vcs.time":
			if date == "" {
				date = setting.Value
			}
		}
	}
	return
}

// BuildVersionString is the output of `pvledger version`
func BuildVersionString() string {
	commit, date := buildStamp()
	if date == "" {
		date = "unknown"
	}
	if commit == "" {
		commit = "unknown"
	}

	return fmt.Sprintf("pvledger v%s %s/%s\n\nBuild Date: %s\nCommit: %s\nBuilt with: %s",
		CurrentVersion, runtime.GOOS, runtime.GOARCH, date, commit, runtime.Version())
}

// DependencyString renders the modules compiled into the binary as a table sorted by path
func DependencyString() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || len(bi.Deps) == 0 {
		return "no dependency information available"
	}

	deps := append([]*debug.Module{}, bi.Deps...)
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].Path < deps[j].Path
	})

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Module", "Version", "Replaced By"})
	table.SetBorder(false)
	for _, dep := range deps {
		replaced := ""
		if dep.Replace != nil {
			replaced = dep.Replace.Path + " " + dep.Replace.Version
		}
		table.Append([]string{dep.Path, dep.Version, replaced})
	}
	table.Render()

	return s.String()
}
