package cache

import (
	"sync"

	"github.com/dapplion/gloas/consensus-types/gloas"
	"github.com/dapplion/gloas/consensus-types/primitives"
)

// ExecutionPayloadBidPool holds verified bids per slot for block
// production. Writes are first-write-wins per (slot, builder): equivocating
// bids are rejected upstream, so at most one bid per pair ever lands here.
type ExecutionPayloadBidPool struct {
	sync.Mutex
	bids map[primitives.Slot]map[primitives.BuilderIndex]gloas.ROBid
}

// NewExecutionPayloadBidPool initializes the bid pool.
func NewExecutionPayloadBidPool() *ExecutionPayloadBidPool {
	return &ExecutionPayloadBidPool{
		bids: make(map[primitives.Slot]map[primitives.BuilderIndex]gloas.ROBid),
	}
}

// Insert adds a verified bid. An existing bid for the same (slot, builder)
// wins.
func (p *ExecutionPayloadBidPool) Insert(bid gloas.ROBid) {
	p.Lock()
	defer p.Unlock()

	slotBids, ok := p.bids[bid.Slot()]
	if !ok {
		slotBids = make(map[primitives.BuilderIndex]gloas.ROBid)
		p.bids[bid.Slot()] = slotBids
	}
	if _, seen := slotBids[bid.BuilderIndex()]; seen {
		return
	}
	slotBids[bid.BuilderIndex()] = bid
	bidPoolSize.Inc()
}

// BestBid returns the highest-value bid for the slot. Ties break to the
// lowest builder index so every node selects the same bid.
func (p *ExecutionPayloadBidPool) BestBid(slot primitives.Slot) (gloas.ROBid, bool) {
	p.Lock()
	defer p.Unlock()

	slotBids, ok := p.bids[slot]
	if !ok || len(slotBids) == 0 {
		return gloas.ROBid{}, false
	}
	var best gloas.ROBid
	found := false
	for _, bid := range slotBids {
		if !found {
			best = bid
			found = true
			continue
		}
		if bid.Value() > best.Value() ||
			(bid.Value() == best.Value() && bid.BuilderIndex() < best.BuilderIndex()) {
			best = bid
		}
	}
	return best, true
}

// Prune drops all slots outside the retention window behind currentSlot.
func (p *ExecutionPayloadBidPool) Prune(currentSlot primitives.Slot, window primitives.Slot) {
	p.Lock()
	defer p.Unlock()

	if currentSlot < window {
		return
	}
	cutoff := currentSlot - window
	for slot, slotBids := range p.bids {
		if slot < cutoff {
			bidPoolSize.Sub(float64(len(slotBids)))
			delete(p.bids, slot)
		}
	}
}
