// Copyright 2025 The Rivaas Authors
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

package routeset

// BloomFilter answers "definitely not declared" for templates before the
// table lookup. It works on the template hash computed by
// [pattern.HashTemplate], so a lookup never hashes the template twice.
//
// A bloom filter can report false positives but never false negatives.
// Removing a template leaves its bits set; that only costs an extra table
// lookup.
type BloomFilter struct {
	bits  []uint64 // Bit array (each uint64 holds 64 bits)
	size  uint64   // Total number of bits
	seeds []uint64 // One seed per hash function
}

// seedMix spreads consecutive seeds across the 64-bit space.
const seedMix = 0x9E3779B97F4A7C15

// NewBloomFilter creates a bloom filter with size bits and numHashFuncs hash functions.
func NewBloomFilter(size uint64, numHashFuncs int) (*BloomFilter, error) {
	if size == 0 {
		return nil, ErrBloomFilterSizeZero
	}
	if numHashFuncs <= 0 {
		return nil, ErrBloomHashFunctionsInvalid
	}

	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64), // Round up to nearest 64-bit boundary
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}

	for i := range numHashFuncs {
		//nolint:gosec // G115: numHashFuncs is small, overflow impossible
		bf.seeds[i] = uint64(i+1) * seedMix
	}

	return bf, nil
}

func (bf *BloomFilter) position(baseHash, seed uint64) uint64 {
	return (baseHash ^ seed) % bf.size
}

// Add records a template hash.
func (bf *BloomFilter) Add(baseHash uint64) {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test reports whether baseHash might have been added.
// A false result is definite.
func (bf *BloomFilter) Test(baseHash uint64) bool {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}

	return true
}
