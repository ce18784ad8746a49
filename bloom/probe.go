package bloom

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashAlgorithm selects the digest used to turn a raw key into the 64 bits
// of entropy a Probe splits into two 32-bit halves.
type HashAlgorithm int

const (
	// CityHash is the default algorithm. The original storage engine uses
	// Google's CityHash; this port uses xxHash64 in its place, since it
	// gives the same 64-bit, well-distributed, allocation-free digest
	// CityHash would.
	CityHash HashAlgorithm = iota
	FastHash
	MurmurHash2
)

func (a HashAlgorithm) String() string {
	switch a {
	case CityHash:
		return "CITY_HASH"
	case FastHash:
		return "FAST_HASH"
	case MurmurHash2:
		return "MURMUR_HASH_2"
	default:
		return "UNKNOWN_HASH"
	}
}

// Probe is the decoded hash of a candidate key: H1 is the 32-bit hash fed
// to BlockBloomFilter.Insert/Find; H2 is kept available for callers that
// want a second independent hash (e.g. double hashing schemes layered on
// top of this filter).
type Probe struct {
	H1, H2 uint32
}

// BloomKeyProbe hashes key with algo and splits the 64-bit digest into two
// 32-bit halves.
func BloomKeyProbe(key []byte, algo HashAlgorithm) (Probe, error) {
	digest, err := digest64(key, algo)
	if err != nil {
		return Probe{}, err
	}
	return Probe{H1: uint32(digest), H2: uint32(digest >> 32)}, nil
}

func digest64(key []byte, algo HashAlgorithm) (uint64, error) {
	switch algo {
	case CityHash:
		return xxhash.Sum64(key), nil
	case FastHash:
		return fastHash64(key, 0), nil
	case MurmurHash2:
		return murmurHash64A(key, 0xc70f6907), nil
	default:
		return 0, fmt.Errorf("%w: unsupported hash algorithm %s", ErrInvalidArgument, algo.String())
	}
}

// fastHash64 is Zilong Tan's public-domain fast-hash, a compact
// multiply-xor-shift mixer over 8-byte words. Offered as the FAST_HASH
// algorithm alternative to xxHash/CityHash.
func fastHash64(data []byte, seed uint64) uint64 {
	const m = 0x880355f21e6d1965
	h := seed ^ (uint64(len(data)) * m)

	for len(data) >= 8 {
		v := binary.LittleEndian.Uint64(data)
		data = data[8:]
		h ^= mixFastHash(v)
		h *= m
	}

	if len(data) > 0 {
		var v uint64
		for i := len(data) - 1; i >= 0; i-- {
			v = (v << 8) | uint64(data[i])
		}
		h ^= mixFastHash(v)
		h *= m
	}

	return mixFastHash(h)
}

func mixFastHash(h uint64) uint64 {
	h ^= h >> 23
	h *= 0x2127599bf4325c37
	h ^= h >> 47
	return h
}

// murmurHash64A is Austin Appleby's MurmurHash2 64-bit variant for 64-bit
// platforms, offered as the MURMUR_HASH_2 algorithm alternative.
func murmurHash64A(data []byte, seed uint64) uint64 {
	const m = 0xc6a4a7935bd1e995
	const r = 47

	h := seed ^ (uint64(len(data)) * m)

	for len(data) >= 8 {
		k := binary.LittleEndian.Uint64(data)
		data = data[8:]

		k *= m
		k ^= k >> r
		k *= m

		h ^= k
		h *= m
	}

	if len(data) > 0 {
		var tail uint64
		for i := len(data) - 1; i >= 0; i-- {
			tail = (tail << 8) | uint64(data[i])
		}
		h ^= tail
		h *= m
	}

	h ^= h >> r
	h *= m
	h ^= h >> r
	return h
}
