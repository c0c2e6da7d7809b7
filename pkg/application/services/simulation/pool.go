package simulation

// ResourcePool tracks the shared labor balance and reference clock for one
// scenario run. The balance is allowed to go negative: a draw that exceeds the
// balance records the overdraft as debt, and the deficit feeds the next
// building's shortfall wait.
type ResourcePool struct {
	balance float64
	clock   float64
}

// NewResourcePool creates a pool seeded with the scenario's opening balance
func NewResourcePool(seedBalance float64) *ResourcePool {
	return &ResourcePool{balance: seedBalance}
}

// Balance returns the currently available resource units
func (p *ResourcePool) Balance() float64 {
	return p.balance
}

// Clock returns the current reference time in days
func (p *ResourcePool) Clock() float64 {
	return p.clock
}

// CanCover reports whether the balance fully funds the required amount
func (p *ResourcePool) CanCover(required float64) bool {
	return p.balance >= required
}

// Draw commits resources to a building, overdrafting if necessary
func (p *ResourcePool) Draw(required float64) {
	p.balance -= required
}

// Release returns a completed building's resource claim to the pool
func (p *ResourcePool) Release(amount float64) {
	p.balance += amount
}

// AdvanceClock moves the reference clock forward by d days
func (p *ResourcePool) AdvanceClock(d float64) {
	p.clock += d
}

// ResetClock sets the reference clock to t. The shortfall path recomputes the
// clock from the accumulated wait instead of advancing it, so the clock is not
// monotonic once any building overdrafts the pool.
func (p *ResourcePool) ResetClock(t float64) {
	p.clock = t
}
