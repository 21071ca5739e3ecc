package engine

import "math/rand"

// Bag is a deterministic 7-bag randomizer: every run of seven consecutive
// draws from a bag boundary contains each kind exactly once. A Fisher-Yates
// shuffle of the seven kinds via rand.Rand.Shuffle with a refill-when-low
// queue, reseeded from an explicit seed rather than wall-clock time so the
// stream is reproducible.
type Bag struct {
	rng   *rand.Rand
	queue []Kind
}

// NewBag returns a bag generator whose infinite piece stream is fixed by seed.
func NewBag(seed int64) *Bag {
	b := &Bag{rng: rand.New(rand.NewSource(seed))}
	b.refill()
	return b
}

// refill appends one freshly shuffled permutation of all seven kinds.
func (b *Bag) refill() {
	perm := AllKinds
	b.rng.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	b.queue = append(b.queue, perm[:]...)
}

// ensure guarantees at least n kinds are buffered in the queue.
func (b *Bag) ensure(n int) {
	for len(b.queue) < n {
		b.refill()
	}
}

// Next draws and consumes the next kind from the stream.
func (b *Bag) Next() Kind {
	b.ensure(1)
	k := b.queue[0]
	b.queue = b.queue[1:]
	return k
}

// Peek returns the next n kinds in order without consuming them.
func (b *Bag) Peek(n int) []Kind {
	b.ensure(n)
	out := make([]Kind, n)
	copy(out, b.queue[:n])
	return out
}
