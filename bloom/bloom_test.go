package bloom

import (
	"math/rand"
	"testing"
)

func TestInsertFind(t *testing.T) {
	f := New(nil)
	if err := f.Init(12); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer f.Close()

	if !f.AlwaysFalse() {
		t.Fatalf("expected AlwaysFalse before any insert")
	}

	f.Insert(42)

	if f.AlwaysFalse() {
		t.Fatalf("expected AlwaysFalse to clear after insert")
	}
	if !f.Find(42) {
		t.Fatalf("expected Find(42) to be true right after Insert(42)")
	}
}

func TestNoFalseNegatives(t *testing.T) {
	f := New(nil)
	if err := f.Init(MinLogSpace(1000, 0.01)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer f.Close()

	r := rand.New(rand.NewSource(1))
	hashes := make([]uint32, 1000)
	for i := range hashes {
		hashes[i] = r.Uint32()
		f.Insert(hashes[i])
	}

	for _, h := range hashes {
		if !f.Find(h) {
			t.Fatalf("false negative for hash %d", h)
		}
	}
}

func TestFalsePositiveRateWithinBound(t *testing.T) {
	const n = 1000
	const fpp = 0.01

	f := New(nil)
	if err := f.Init(MinLogSpace(n, fpp)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer f.Close()

	r := rand.New(rand.NewSource(2))
	seen := make(map[uint32]bool, n)
	for len(seen) < n {
		h := r.Uint32()
		if seen[h] {
			continue
		}
		seen[h] = true
		f.Insert(h)
	}

	const trials = 100000
	falsePositives := 0
	for i := 0; i < trials; i++ {
		h := r.Uint32()
		if seen[h] {
			continue
		}
		if f.Find(h) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / float64(trials)
	// Generous tolerance: the block layout's fpp runs a bit higher than a
	// textbook Bloom filter at the same n/m.
	if rate > 0.02 {
		t.Fatalf("false positive rate %.4f exceeds tolerance 0.02", rate)
	}
}

func TestInitRejectsOversizedSpace(t *testing.T) {
	f := New(nil)
	err := f.Init(40) // logNumBuckets would be 35, > 32
	if err == nil {
		t.Fatalf("expected error for oversized log_space_bytes")
	}
}

func TestSizingRoundTrip(t *testing.T) {
	const n = 5000
	const fpp = 0.02

	logSpace := MinLogSpace(n, fpp)
	got := FalsePositiveProb(n, logSpace)
	if got > fpp*1.5 {
		t.Fatalf("FalsePositiveProb(%d, %d) = %.5f, expected roughly <= %.5f", n, logSpace, got, fpp)
	}

	maxNdv := MaxNdv(logSpace, fpp)
	if maxNdv < n/2 {
		t.Fatalf("MaxNdv(%d, %.2f) = %d, expected at least %d", logSpace, fpp, maxNdv, n/2)
	}
}

func TestBloomKeyProbeSplitsDigest(t *testing.T) {
	probe, err := BloomKeyProbe([]byte("hello"), CityHash)
	if err != nil {
		t.Fatalf("BloomKeyProbe failed: %v", err)
	}
	if probe.H1 == 0 && probe.H2 == 0 {
		t.Fatalf("expected a non-zero digest for a non-empty key")
	}

	for _, algo := range []HashAlgorithm{CityHash, FastHash, MurmurHash2} {
		if _, err := BloomKeyProbe([]byte("some-key"), algo); err != nil {
			t.Errorf("BloomKeyProbe(%s) failed: %v", algo, err)
		}
	}

	if _, err := BloomKeyProbe([]byte("x"), HashAlgorithm(99)); err == nil {
		t.Errorf("expected error for unsupported hash algorithm")
	}
}

func TestReaderMatchesOwnedFilter(t *testing.T) {
	f := New(nil)
	if err := f.Init(12); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer f.Close()

	probe, _ := BloomKeyProbe([]byte("needle"), CityHash)
	f.Insert(probe.H1)

	spec := FilterSpec{Bytes: f.Directory(), NHash: kBucketWords, Algorithm: CityHash}
	reader, err := NewReader(spec)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	if !reader.MayContainKey(probe) {
		t.Fatalf("expected Reader to find the same key the owned filter inserted")
	}

	absentProbe, _ := BloomKeyProbe([]byte("not-inserted-xyz"), CityHash)
	_ = absentProbe // absence is probabilistic; only assert no panic/false-negative path above.
}

func TestFilterSpecValidate(t *testing.T) {
	bad := FilterSpec{Bytes: make([]byte, 31), NHash: 4, Algorithm: CityHash}
	if err := bad.Validate(); err == nil {
		t.Errorf("expected error for non-power-of-two-or-too-small bytes")
	}

	badHash := FilterSpec{Bytes: make([]byte, 32), NHash: 9, Algorithm: CityHash}
	if err := badHash.Validate(); err == nil {
		t.Errorf("expected error for nhash out of range")
	}
}
