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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// cached payloads start with a one byte encoding and the little endian length of the original bytes
const (
	payloadRaw byte = iota
	payloadLZ4

	payloadHeaderLen = 5
)

var ErrCorruptPayload = errors.New("corrupt cache payload")

// EncodePayload lz4 block compresses in for storage in the cache. Payloads that lz4 cannot shrink, such as
// short keys or already compressed data, are stored uncompressed.
func EncodePayload(in []byte) ([]byte, error) {
	out := make([]byte, payloadHeaderLen+lz4.CompressBlockBound(len(in)))
	binary.LittleEndian.PutUint32(out[1:payloadHeaderLen], uint32(len(in)))

	n, err := lz4.CompressBlock(in, out[payloadHeaderLen:], nil)
	if err != nil {
		return nil, err
	}

	if n == 0 || n >= len(in) {
		out[0] = payloadRaw
		return append(out[:payloadHeaderLen], in...), nil
	}

	out[0] = payloadLZ4
	return out[:payloadHeaderLen+n], nil
}

// DecodePayload returns the original bytes of a payload built by EncodePayload
func DecodePayload(in []byte) ([]byte, error) {
	if len(in) < payloadHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptPayload, len(in))
	}

	size := int(binary.LittleEndian.Uint32(in[1:payloadHeaderLen]))
	body := in[payloadHeaderLen:]

	switch in[0] {
	case payloadRaw:
		if len(body) != size {
			return nil, fmt.Errorf("%w: expected %d bytes, have %d", ErrCorruptPayload, size, len(body))
		}
		return append([]byte{}, body...), nil
	case payloadLZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCorruptPayload, err)
		}
		if n != size {
			return nil, fmt.Errorf("%w: expected %d bytes, have %d", ErrCorruptPayload, size, n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrCorruptPayload, in[0])
	}
}
