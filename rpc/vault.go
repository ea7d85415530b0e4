package rpc

import (
	"context"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
)

type TokenAccountState uint8

const (
	TokenAccountUninitialized TokenAccountState = 0
	TokenAccountInitialized   TokenAccountState = 1
	TokenAccountFrozen        TokenAccountState = 2
)

// tokenAccountLen is the base SPL token account size. Token-2022 accounts
// append extensions after it.
const tokenAccountLen = 165

// TokenAccount is the prefix of an SPL token account the vault check needs.
type TokenAccount struct {
	Mint           solanago.PublicKey
	Owner          solanago.PublicKey
	Amount         uint64
	DelegateOption uint32
	Delegate       solanago.PublicKey
	State          TokenAccountState
}

func DecodeTokenAccount(data []byte) (TokenAccount, error) {
	if len(data) < tokenAccountLen {
		return TokenAccount{}, errors.Wrapf(shared.ErrInvalidAccountData, "token account of %d bytes", len(data))
	}
	var acc TokenAccount
	if err := binary.NewBinDecoder(data).Decode(&acc); err != nil {
		return TokenAccount{}, errors.Wrap(err, "decode token account")
	}
	return acc, nil
}

// VaultBalances are the token balances actually held by a pool's vaults.
type VaultBalances struct {
	Token0 uint64
	Token1 uint64
}

// GetVaultBalances reads both vaults and checks they hold the pool's mints
// under the pool's token programs.
func (s *StateService) GetVaultBalances(ctx context.Context, pool *states.PoolState) (VaultBalances, error) {
	accs, err := s.getMultipleOwned(ctx, []solanago.PublicKey{pool.Token0Vault, pool.Token1Vault}, false)
	if err != nil {
		return VaultBalances{}, err
	}
	want := []struct {
		mint, program solanago.PublicKey
	}{
		{pool.Token0Mint, pool.Token0Program},
		{pool.Token1Mint, pool.Token1Program},
	}
	var amounts [2]uint64
	for i, acc := range accs {
		if !acc.Owner.Equals(want[i].program) {
			return VaultBalances{}, errors.Wrapf(shared.ErrInvalidVault, "vault %d owned by %s", i, acc.Owner)
		}
		tokenAcc, err := DecodeTokenAccount(acc.Data.GetBinary())
		if err != nil {
			return VaultBalances{}, errors.Wrapf(err, "vault %d", i)
		}
		if !tokenAcc.Mint.Equals(want[i].mint) || tokenAcc.State == TokenAccountUninitialized {
			return VaultBalances{}, errors.Wrapf(shared.ErrInvalidVault, "vault %d holds mint %s", i, tokenAcc.Mint)
		}
		amounts[i] = tokenAcc.Amount
	}
	return VaultBalances{Token0: amounts[0], Token1: amounts[1]}, nil
}
