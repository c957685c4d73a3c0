package buffer

// ReplacementStrategy picks which unpinned buffer to evict when the pool is
// full and notes pin/unpin traffic so it can keep whatever bookkeeping its
// policy needs.
type ReplacementStrategy interface {
	initialize(pool []*Buffer)
	chooseUnpinnedBuffer() *Buffer
	pinBuffer(buffer *Buffer)
	unpinBuffer(buffer *Buffer)
}

// naiveStrategy scans the whole pool in order and returns the first
// unpinned buffer it finds, ignoring recency or frequency.
type naiveStrategy struct {
	pool []*Buffer
}

// NewNaiveStrategy returns the naive first-fit replacement strategy.
func NewNaiveStrategy() ReplacementStrategy {
	return &naiveStrategy{}
}

func (s *naiveStrategy) initialize(pool []*Buffer) {
	s.pool = pool
}

func (s *naiveStrategy) chooseUnpinnedBuffer() *Buffer {
	for _, b := range s.pool {
		if !b.isPinned() {
			return b
		}
	}
	return nil
}

func (s *naiveStrategy) pinBuffer(_ *Buffer) {}

func (s *naiveStrategy) unpinBuffer(_ *Buffer) {}
