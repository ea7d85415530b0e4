package rewards

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/gamma-go/shared"
)

// Snapshot marks a change of total LP supply or of the active stream set.
// RewardCalculatedForLpAmount[i] counts the LP already priced for slot i
// over the interval that ends at Timestamp.
type Snapshot struct {
	RewardCalculatedForLpAmount [shared.MaxRewards]uint64
	TotalLpAmount               uint64
	Timestamp                   uint64
}

// fullyCovered reports whether every LP token of the snapshot has been
// priced for slot.
func (s *Snapshot) fullyCovered(slot int) bool {
	return s.RewardCalculatedForLpAmount[slot] >= s.TotalLpAmount
}

// GlobalRewardInfo tracks the active reward streams of a pool and the
// snapshot queue they are priced against. Snapshots are time ordered and
// only ever removed from the front.
type GlobalRewardInfo struct {
	ActiveBoostedRewardInfo [shared.MaxRewards]solanago.PublicKey
	MinStartTime            uint64
	Snapshots               []Snapshot

	// Coverage of the open interval after the last snapshot.
	RewardCalculatedForLpAmount [shared.MaxRewards]uint64
}

// Clone returns a deep copy.
func (g GlobalRewardInfo) Clone() GlobalRewardInfo {
	out := g
	out.Snapshots = append([]Snapshot(nil), g.Snapshots...)
	return out
}

// SlotOf returns the active table slot of key, or -1.
func (g *GlobalRewardInfo) SlotOf(key solanago.PublicKey) int {
	if key.IsZero() {
		return -1
	}
	for i, k := range g.ActiveBoostedRewardInfo {
		if k == key {
			return i
		}
	}
	return -1
}

// HasAnyActiveRewards reports whether any slot is occupied.
func (g *GlobalRewardInfo) HasAnyActiveRewards() bool {
	for _, k := range g.ActiveBoostedRewardInfo {
		if !k.IsZero() {
			return true
		}
	}
	return false
}

// AddNewActiveReward puts key in the first free slot.
func (g *GlobalRewardInfo) AddNewActiveReward(key solanago.PublicKey, startTime uint64) error {
	wasEmpty := !g.HasAnyActiveRewards()
	for i, k := range g.ActiveBoostedRewardInfo {
		if !k.IsZero() {
			continue
		}
		g.ActiveBoostedRewardInfo[i] = key
		g.RewardCalculatedForLpAmount[i] = 0
		if wasEmpty || startTime < g.MinStartTime {
			g.MinStartTime = startTime
		}
		return nil
	}
	return shared.ErrMaxRewardsReached
}

// AddSnapshot appends a snapshot of the total LP supply at timestamp.
func (g *GlobalRewardInfo) AddSnapshot(totalLpAmount, timestamp uint64) error {
	if n := len(g.Snapshots); n > 0 && timestamp < g.Snapshots[n-1].Timestamp {
		return shared.ErrInvalidSnapshotOrder
	}
	g.Snapshots = append(g.Snapshots, Snapshot{
		TotalLpAmount: totalLpAmount,
		Timestamp:     timestamp,
	})
	// The open interval starts afresh.
	g.RewardCalculatedForLpAmount = [shared.MaxRewards]uint64{}
	return nil
}

// RemoveInactiveRewards frees the slot of key once reward stops being active.
func (g *GlobalRewardInfo) RemoveInactiveRewards(key solanago.PublicKey, reward *RewardInfo, now uint64) {
	slot := g.SlotOf(key)
	if slot < 0 || reward.IsActive(now) {
		return
	}
	g.ActiveBoostedRewardInfo[slot] = solanago.PublicKey{}
	g.RewardCalculatedForLpAmount[slot] = 0
}

// RemoveAllInactiveSnapshots drops front snapshots no active stream needs:
// those before MinStartTime and those fully priced for every active slot.
func (g *GlobalRewardInfo) RemoveAllInactiveSnapshots() {
	if !g.HasAnyActiveRewards() {
		g.Snapshots = nil
		return
	}
	drop := 0
	for ; drop < len(g.Snapshots); drop++ {
		if !g.snapshotRemovable(&g.Snapshots[drop]) {
			break
		}
	}
	g.Snapshots = g.Snapshots[drop:]
}

func (g *GlobalRewardInfo) snapshotRemovable(s *Snapshot) bool {
	if s.Timestamp < g.MinStartTime {
		return true
	}
	for slot, k := range g.ActiveBoostedRewardInfo {
		if !k.IsZero() && !s.fullyCovered(slot) {
			return false
		}
	}
	return true
}

// cover records lp as priced for slot on the snapshot at index, or on the
// open interval when index is -1. Coverage never exceeds the LP supply.
func (g *GlobalRewardInfo) cover(slot, index int, lp, lpSupply uint64) {
	if index < 0 {
		g.RewardCalculatedForLpAmount[slot] = addCapped(g.RewardCalculatedForLpAmount[slot], lp, lpSupply)
		return
	}
	s := &g.Snapshots[index]
	s.RewardCalculatedForLpAmount[slot] = addCapped(s.RewardCalculatedForLpAmount[slot], lp, s.TotalLpAmount)
}

func addCapped(current, delta, limit uint64) uint64 {
	if current >= limit {
		return limit
	}
	return current + min(delta, limit-current)
}
