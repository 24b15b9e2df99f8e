package problemgen

import "math/rand/v2"

// streamSalt fixes the second PCG word so a seed alone determines a stream.
const streamSalt = 0x5a7_3a7_9e37

// mcSeedOffset keys the stream that picks distractors and shuffles choices.
const mcSeedOffset = 999

// stream is a deterministic pseudo-random source keyed by an item seed.
// Draws must happen in a fixed order per skill.
type stream struct {
	r *rand.Rand
}

func newStream(seed int64) *stream {
	return &stream{r: rand.New(rand.NewPCG(uint64(seed), streamSalt))}
}

// intn returns a uniform integer in [lo, hi].
func (s *stream) intn(lo, hi int) int {
	return lo + s.r.IntN(hi-lo+1)
}

// sign returns +1 or -1.
func (s *stream) sign() int {
	if s.r.IntN(2) == 0 {
		return 1
	}
	return -1
}

func (s *stream) shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

func pick[T any](s *stream, xs []T) T {
	return xs[s.r.IntN(len(xs))]
}
