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

package common_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-ledger/common"
	"github.com/spf13/viper"
)

var _ = Describe("Cache", func() {
	BeforeEach(func() {
		viper.Set("cache.redis_url", "")
		viper.Set("cache.ttl", 60)
		Expect(common.SetupCache()).To(Succeed())
	})

	It("round trips values", func() {
		key := common.CacheKey("prices", "ENI.MI")
		Expect(common.CacheSet(key, []byte("hello world"))).To(Succeed())

		val, err := common.CacheGet(key)
		Expect(err).To(BeNil())
		Expect(string(val)).To(Equal("hello world"))
	})

	It("reports a miss for unknown keys", func() {
		_, err := common.CacheGet(common.CacheKey("missing"))
		Expect(err).To(MatchError(common.ErrCacheMiss))
	})

	It("expires values after the ttl", func() {
		viper.Set("cache.ttl", 0)
		key := common.CacheKey("expired")
		Expect(common.CacheSet(key, []byte("x"))).To(Succeed())
		time.Sleep(time.Millisecond)

		_, err := common.CacheGet(key)
		Expect(err).To(MatchError(common.ErrCacheMiss))
	})

	It("forgets everything after a purge", func() {
		key := common.CacheKey("purge")
		Expect(common.CacheSet(key, []byte("x"))).To(Succeed())
		Expect(common.CachePurge()).To(Succeed())

		_, err := common.CacheGet(key)
		Expect(err).To(MatchError(common.ErrCacheMiss))
	})

	It("builds distinct keys for distinct parts", func() {
		Expect(common.CacheKey("ab", "c")).ToNot(Equal(common.CacheKey("a", "bc")))
		Expect(common.CacheKey("a", "b")).To(Equal(common.CacheKey("a", "b")))
		Expect(common.CacheKey("a")).To(HavePrefix(common.CachePrefix))
	})
})

var _ = Describe("Payload", func() {
	It("compresses repetitive payloads", func() {
		in := bytes.Repeat([]byte("1.234,56;"), 100)
		out, err := common.EncodePayload(in)
		Expect(err).To(BeNil())
		Expect(len(out)).To(BeNumerically("<", len(in)))

		back, err := common.DecodePayload(out)
		Expect(err).To(BeNil())
		Expect(back).To(Equal(in))
	})

	It("stores short payloads uncompressed", func() {
		in := []byte("VWCE.MI")
		out, err := common.EncodePayload(in)
		Expect(err).To(BeNil())
		Expect(out).To(HaveLen(len(in) + 5))

		back, err := common.DecodePayload(out)
		Expect(err).To(BeNil())
		Expect(back).To(Equal(in))
	})

	It("round trips an empty payload", func() {
		out, err := common.EncodePayload([]byte{})
		Expect(err).To(BeNil())
		back, err := common.DecodePayload(out)
		Expect(err).To(BeNil())
		Expect(back).To(BeEmpty())
	})

	DescribeTable("rejects corrupt payloads",
		func(in []byte) {
			_, err := common.DecodePayload(in)
			Expect(errors.Is(err, common.ErrCorruptPayload)).To(BeTrue())
		},
		Entry("too short", []byte{1, 0}),
		Entry("unknown encoding", []byte{7, 0, 0, 0, 0}),
		Entry("truncated raw body", []byte{0, 4, 0, 0, 0, 'a'}),
	)
})

var _ = Describe("Timezone", func() {
	It("defaults to Europe/Rome", func() {
		viper.Set("analytics.timezone", "")
		Expect(common.GetTimezone().String()).To(Equal("Europe/Rome"))
	})

	It("truncates to midnight", func() {
		tz := common.GetTimezone()
		t := time.Date(2023, 5, 4, 17, 30, 0, 0, tz)
		Expect(common.Midnight(t, tz)).To(Equal(time.Date(2023, 5, 4, 0, 0, 0, 0, tz)))
	})
})

var _ = Describe("Version", func() {
	It("formats release versions without metadata", func() {
		Expect(common.Version{Major: 1, Minor: 2, Patch: 3}.String()).To(Equal("1.2.3"))
	})

	It("marks development versions with their suffix", func() {
		Expect(common.Version{Major: 0, Minor: 4, Suffix: "dev"}.String()).To(HavePrefix("0.4.0-dev"))
	})

	It("names the program and platform", func() {
		s := common.BuildVersionString()
		Expect(s).To(HavePrefix("pvledger v" + common.CurrentVersion.String()))
		Expect(s).To(ContainSubstring("Built with: go"))
	})
})
