package journal

import "sync"

// Counters issues process-lifetime slip and journal numbers. Both
// sequences are strictly increasing; concurrent batch processing must
// go through this type so no two entries share a number. Counters are
// not persisted across restarts.
type Counters struct {
	mu        sync.Mutex
	slipNo    int64
	journalNo int64
}

// NewCounters returns counters starting at 1.
func NewCounters() *Counters {
	return &Counters{slipNo: 1, journalNo: 1}
}

// NextSlipNo returns the next slip number.
func (c *Counters) NextSlipNo() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	no := c.slipNo
	c.slipNo++
	return no
}

// NextJournalNo returns the next internal journal number.
func (c *Counters) NextJournalNo() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	no := c.journalNo
	c.journalNo++
	return no
}
