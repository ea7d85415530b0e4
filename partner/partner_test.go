package partner

import (
	"strings"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/gamma-go/shared"
)

func newKeys(n int) []solanago.PublicKey {
	keys := make([]solanago.PublicKey, n)
	for i := range keys {
		keys[i] = solanago.NewWallet().PublicKey()
	}
	return keys
}

func TestAddNew(t *testing.T) {
	keys := newKeys(shared.PartnerSize + 1)
	var infos PoolPartnerInfos
	var err error
	for _, k := range keys[:shared.PartnerSize] {
		infos, err = infos.AddNew(k)
		require.NoError(t, err)
	}
	for _, k := range keys[:shared.PartnerSize] {
		assert.True(t, infos.Has(k))
	}

	_, err = infos.AddNew(keys[shared.PartnerSize])
	assert.ErrorIs(t, err, shared.ErrExceededMaxPartnersForPool)
	assert.False(t, infos.Has(keys[shared.PartnerSize]))

	var one PoolPartnerInfos
	one, err = one.AddNew(keys[0])
	require.NoError(t, err)
	_, err = one.AddNew(keys[0])
	assert.ErrorIs(t, err, shared.ErrPartnerAlreadyExists)

	_, err = one.AddNew(solanago.PublicKey{})
	assert.ErrorIs(t, err, shared.ErrInvalidPartner)
}

func TestLinkLp(t *testing.T) {
	keys := newKeys(2)
	infos, err := PoolPartnerInfos{}.AddNew(keys[0])
	require.NoError(t, err)

	linked, err := infos.LinkLp(keys[0], 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), linked.TotalPartnerLinkedLpTokens())
	assert.Zero(t, infos.TotalPartnerLinkedLpTokens(), "receiver must not change")

	linked, err = linked.UnlinkLp(keys[0], 200)
	require.NoError(t, err)
	info, ok := linked.Info(keys[0])
	require.True(t, ok)
	assert.Equal(t, uint64(300), info.LpTokenLinkedWithPartner)

	_, err = linked.UnlinkLp(keys[0], 301)
	assert.ErrorIs(t, err, shared.ErrMathOverflow)
	_, err = linked.LinkLp(keys[1], 1)
	assert.ErrorIs(t, err, shared.ErrInvalidPartner)
}

func linkedTable(t *testing.T, keys []solanago.PublicKey, lps []uint64) PoolPartnerInfos {
	t.Helper()
	var infos PoolPartnerInfos
	var err error
	for i, k := range keys {
		infos, err = infos.AddNew(k)
		require.NoError(t, err)
		infos, err = infos.LinkLp(k, lps[i])
		require.NoError(t, err)
	}
	return infos
}

func TestUpdateFeeAmounts(t *testing.T) {
	keys := newKeys(3)
	infos := linkedTable(t, keys, []uint64{100, 200, 0})

	updated, acc, err := infos.UpdateFeeAmounts(FeeCounterSnapshot{Token0: 1000, Token1: 7})
	require.NoError(t, err)

	a, _ := updated.Info(keys[0])
	b, _ := updated.Info(keys[1])
	c, _ := updated.Info(keys[2])
	assert.Equal(t, uint64(333), a.TotalEarnedFeeAmountToken0)
	assert.Equal(t, uint64(666), b.TotalEarnedFeeAmountToken0)
	assert.Zero(t, c.TotalEarnedFeeAmountToken0)
	assert.Equal(t, uint64(2), a.TotalEarnedFeeAmountToken1)
	assert.Equal(t, uint64(4), b.TotalEarnedFeeAmountToken1)

	assert.Equal(t, FeeCounterSnapshot{Token0: 1000, Token1: 7}, acc.Observed)
	assert.Equal(t, FeeCounterSnapshot{Token0: 1, Token1: 1}, acc.Remainder)
	assert.Equal(t, acc.Observed.Token0, acc.Distributed.Token0+acc.Remainder.Token0)
	assert.LessOrEqual(t, acc.Remainder.Token0, uint64(len(keys)))
	assert.Equal(t, FeeCounterSnapshot{Token0: 1000, Token1: 7}, updated.Snapshot())

	// Only the new fees are shared on the next update.
	updated, acc, err = updated.UpdateFeeAmounts(FeeCounterSnapshot{Token0: 1300, Token1: 7})
	require.NoError(t, err)
	a, _ = updated.Info(keys[0])
	assert.Equal(t, uint64(433), a.TotalEarnedFeeAmountToken0)
	assert.Equal(t, uint64(300), acc.Distributed.Token0)

	_, _, err = updated.UpdateFeeAmounts(FeeCounterSnapshot{Token0: 1299, Token1: 7})
	assert.ErrorIs(t, err, shared.ErrMathError)
}

func TestUpdateFeeAmountsWithoutLinkedLp(t *testing.T) {
	keys := newKeys(1)
	infos := linkedTable(t, keys, []uint64{0})

	updated, acc, err := infos.UpdateFeeAmounts(FeeCounterSnapshot{Token0: 50, Token1: 60})
	require.NoError(t, err)
	assert.Equal(t, infos, updated)
	assert.Zero(t, acc.Observed.Token0)
	assert.Equal(t, FeeCounterSnapshot{}, updated.Snapshot())
}

func TestClaim(t *testing.T) {
	keys := newKeys(2)
	infos := linkedTable(t, keys, []uint64{100, 200})
	infos, _, err := infos.UpdateFeeAmounts(FeeCounterSnapshot{Token0: 1000, Token1: 7})
	require.NoError(t, err)

	infos, amount0, amount1, err := infos.Claim(keys[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(333), amount0)
	assert.Equal(t, uint64(2), amount1)

	_, amount0, amount1, err = infos.Claim(keys[0])
	require.NoError(t, err)
	assert.Zero(t, amount0)
	assert.Zero(t, amount1)

	_, _, _, err = infos.Claim(solanago.NewWallet().PublicKey())
	assert.ErrorIs(t, err, shared.ErrInvalidPartner)
}

func TestCodec(t *testing.T) {
	keys := newKeys(2)
	infos := linkedTable(t, keys, []uint64{100, 200})
	infos, _, err := infos.UpdateFeeAmounts(FeeCounterSnapshot{Token0: 1000, Token1: 7})
	require.NoError(t, err)

	data, err := infos.Marshal()
	require.NoError(t, err)
	decoded, err := DecodePoolPartnerInfos(data)
	require.NoError(t, err)
	assert.Equal(t, infos, decoded)

	p := Partner{Name: "kamino", Authority: keys[0], PoolState: keys[1]}
	data, err = p.Marshal()
	require.NoError(t, err)
	decodedPartner, err := DecodePartner(data)
	require.NoError(t, err)
	assert.Equal(t, p, decodedPartner)

	_, err = Partner{Name: strings.Repeat("x", shared.MaxNameLen+1)}.Marshal()
	assert.ErrorIs(t, err, shared.ErrInvalidPartner)

	_, err = DecodePartner(data[:4])
	assert.Error(t, err)
}
