package partner

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
)

// Partner is a protocol taking part in a pool's partner program.
type Partner struct {
	Name               string
	Authority          solanago.PublicKey
	PoolState          solanago.PublicKey
	Token0TokenAccount solanago.PublicKey
	Token1TokenAccount solanago.PublicKey
}

func (p *Partner) Validate() error {
	if len(p.Name) > shared.MaxNameLen {
		return fmt.Errorf("%w: name %q longer than %d bytes", shared.ErrInvalidPartner, p.Name, shared.MaxNameLen)
	}
	return nil
}

// PartnerInfo is one slot of the pool's partner table. A zero Partner key
// marks a free slot.
type PartnerInfo struct {
	Partner                     solanago.PublicKey
	LpTokenLinkedWithPartner    uint64
	TotalClaimedFeeAmountToken0 uint64
	TotalClaimedFeeAmountToken1 uint64
	TotalEarnedFeeAmountToken0  uint64
	TotalEarnedFeeAmountToken1  uint64
}

// Unclaimed is what the partner has earned and not claimed yet.
func (i *PartnerInfo) Unclaimed() (uint64, uint64) {
	return math.SaturatingSubU64(i.TotalEarnedFeeAmountToken0, i.TotalClaimedFeeAmountToken0),
		math.SaturatingSubU64(i.TotalEarnedFeeAmountToken1, i.TotalClaimedFeeAmountToken1)
}

// FeeCounterSnapshot is a reading of the pool's cumulative partner
// protocol fee counters.
type FeeCounterSnapshot struct {
	Token0 uint64
	Token1 uint64
}

// Accrual reports what one UpdateFeeAmounts call distributed. Remainder is
// the floor-rounding dust left undistributed.
type Accrual struct {
	Observed    FeeCounterSnapshot
	Distributed FeeCounterSnapshot
	Remainder   FeeCounterSnapshot
}

// PoolPartnerInfos is the fixed partner table of a pool. Methods return an
// updated copy and leave the receiver untouched.
type PoolPartnerInfos struct {
	LastObservedFeeAmountToken0 uint64
	LastObservedFeeAmountToken1 uint64
	Infos                       [shared.PartnerSize]PartnerInfo
}

func (p PoolPartnerInfos) index(key solanago.PublicKey) int {
	if key.IsZero() {
		return -1
	}
	for i := range p.Infos {
		if p.Infos[i].Partner == key {
			return i
		}
	}
	return -1
}

// AddNew registers key in the first free slot.
func (p PoolPartnerInfos) AddNew(key solanago.PublicKey) (PoolPartnerInfos, error) {
	if key.IsZero() {
		return p, shared.ErrInvalidPartner
	}
	if p.Has(key) {
		return p, shared.ErrPartnerAlreadyExists
	}
	for i := range p.Infos {
		if p.Infos[i].Partner.IsZero() {
			p.Infos[i] = PartnerInfo{Partner: key}
			return p, nil
		}
	}
	return p, shared.ErrExceededMaxPartnersForPool
}

func (p PoolPartnerInfos) Has(key solanago.PublicKey) bool {
	return p.index(key) >= 0
}

func (p PoolPartnerInfos) Info(key solanago.PublicKey) (PartnerInfo, bool) {
	i := p.index(key)
	if i < 0 {
		return PartnerInfo{}, false
	}
	return p.Infos[i], true
}

// TotalPartnerLinkedLpTokens sums the LP linked to registered partners.
func (p PoolPartnerInfos) TotalPartnerLinkedLpTokens() uint64 {
	var total uint64
	for _, info := range p.Infos {
		if !info.Partner.IsZero() {
			total += info.LpTokenLinkedWithPartner
		}
	}
	return total
}

// LinkLp attributes delta LP tokens deposited by a referred user to key.
func (p PoolPartnerInfos) LinkLp(key solanago.PublicKey, delta uint64) (PoolPartnerInfos, error) {
	i := p.index(key)
	if i < 0 {
		return p, shared.ErrInvalidPartner
	}
	linked, err := math.AddU64(p.Infos[i].LpTokenLinkedWithPartner, delta)
	if err != nil {
		return p, err
	}
	if _, err := math.AddU64(p.TotalPartnerLinkedLpTokens(), delta); err != nil {
		return p, err
	}
	p.Infos[i].LpTokenLinkedWithPartner = linked
	return p, nil
}

// UnlinkLp removes delta LP tokens withdrawn by a referred user from key.
func (p PoolPartnerInfos) UnlinkLp(key solanago.PublicKey, delta uint64) (PoolPartnerInfos, error) {
	i := p.index(key)
	if i < 0 {
		return p, shared.ErrInvalidPartner
	}
	if delta > p.Infos[i].LpTokenLinkedWithPartner {
		return p, shared.ErrMathOverflow
	}
	p.Infos[i].LpTokenLinkedWithPartner -= delta
	return p, nil
}

// Snapshot returns the fee counters observed by the last update.
func (p PoolPartnerInfos) Snapshot() FeeCounterSnapshot {
	return FeeCounterSnapshot{Token0: p.LastObservedFeeAmountToken0, Token1: p.LastObservedFeeAmountToken1}
}

// UpdateFeeAmounts shares the partner fees collected since the last
// observation among partners in proportion to their linked LP. With no
// linked LP the table is returned unchanged and the fees stay pending.
func (p PoolPartnerInfos) UpdateFeeAmounts(current FeeCounterSnapshot) (PoolPartnerInfos, Accrual, error) {
	total := p.TotalPartnerLinkedLpTokens()
	if total == 0 {
		return p, Accrual{}, nil
	}
	if current.Token0 < p.LastObservedFeeAmountToken0 || current.Token1 < p.LastObservedFeeAmountToken1 {
		return p, Accrual{}, shared.ErrMathError
	}

	acc := Accrual{Observed: FeeCounterSnapshot{
		Token0: current.Token0 - p.LastObservedFeeAmountToken0,
		Token1: current.Token1 - p.LastObservedFeeAmountToken1,
	}}
	for i := range p.Infos {
		info := &p.Infos[i]
		if info.Partner.IsZero() {
			continue
		}
		earned0, err := share(acc.Observed.Token0, info.LpTokenLinkedWithPartner, total)
		if err != nil {
			return p, Accrual{}, err
		}
		earned1, err := share(acc.Observed.Token1, info.LpTokenLinkedWithPartner, total)
		if err != nil {
			return p, Accrual{}, err
		}
		if info.TotalEarnedFeeAmountToken0, err = math.AddU64(info.TotalEarnedFeeAmountToken0, earned0); err != nil {
			return p, Accrual{}, err
		}
		if info.TotalEarnedFeeAmountToken1, err = math.AddU64(info.TotalEarnedFeeAmountToken1, earned1); err != nil {
			return p, Accrual{}, err
		}
		acc.Distributed.Token0 += earned0
		acc.Distributed.Token1 += earned1
	}
	acc.Remainder = FeeCounterSnapshot{
		Token0: acc.Observed.Token0 - acc.Distributed.Token0,
		Token1: acc.Observed.Token1 - acc.Distributed.Token1,
	}

	p.LastObservedFeeAmountToken0 = current.Token0
	p.LastObservedFeeAmountToken1 = current.Token1
	return p, acc, nil
}

// share is floor(amount * linked / total).
func share(amount, linked, total uint64) (uint64, error) {
	v, err := math.FloorDiv(math.U128(amount), math.U128(linked), math.U128(total))
	if err != nil {
		return 0, shared.ErrMathError
	}
	return math.ToU64(v)
}

// Claim marks everything key has earned as claimed and returns the payout.
func (p PoolPartnerInfos) Claim(key solanago.PublicKey) (PoolPartnerInfos, uint64, uint64, error) {
	i := p.index(key)
	if i < 0 {
		return p, 0, 0, shared.ErrInvalidPartner
	}
	info := &p.Infos[i]
	if info.TotalClaimedFeeAmountToken0 > info.TotalEarnedFeeAmountToken0 || info.TotalClaimedFeeAmountToken1 > info.TotalEarnedFeeAmountToken1 {
		return p, 0, 0, shared.ErrMathOverflow
	}
	amount0, amount1 := info.Unclaimed()
	info.TotalClaimedFeeAmountToken0 = info.TotalEarnedFeeAmountToken0
	info.TotalClaimedFeeAmountToken1 = info.TotalEarnedFeeAmountToken1
	return p, amount0, amount1, nil
}
