package rpc

import (
	"context"
	encbin "encoding/binary"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/krazyTry/gamma-go/math"
	"github.com/krazyTry/gamma-go/shared"
)

// Token-2022 mint layout: the base mint padded to the token account size,
// one account type byte, then TLV extensions.
const (
	accountTypeOffset = 165
	extensionsOffset  = 166
	accountTypeMint   = 1

	extensionUninitialized     = 0
	extensionTransferFeeConfig = 1
	transferFeeConfigLen       = 108
)

// GetTransferFeeConfig returns the transfer fee extension of mint, or nil
// when the mint is a classic SPL mint or has no such extension.
func (s *StateService) GetTransferFeeConfig(ctx context.Context, mint solanago.PublicKey) (*math.TransferFeeConfig, error) {
	out, err := s.client.GetAccountInfoWithOpts(ctx, mint, &solanarpc.GetAccountInfoOpts{
		Commitment: s.commitment,
		Encoding:   solanago.EncodingBase64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get mint %s", mint)
	}
	if out == nil || out.Value == nil {
		return nil, errors.Wrapf(solanarpc.ErrNotFound, "mint %s", mint)
	}
	if !out.Value.Owner.Equals(solanago.Token2022ProgramID) {
		return nil, nil
	}
	cfg, err := ParseTransferFeeConfig(out.GetBinary())
	if err != nil {
		return nil, errors.Wrapf(err, "mint %s", mint)
	}
	return cfg, nil
}

// ParseTransferFeeConfig walks the extension list of a token-2022 mint.
func ParseTransferFeeConfig(data []byte) (*math.TransferFeeConfig, error) {
	if len(data) <= extensionsOffset {
		return nil, nil
	}
	if data[accountTypeOffset] != accountTypeMint {
		return nil, errors.Wrapf(shared.ErrInvalidAccountData, "account type %d is not a mint", data[accountTypeOffset])
	}
	dec := binary.NewBinDecoder(data[extensionsOffset:])
	for dec.Remaining() >= 4 {
		typ, err := dec.ReadUint16(encbin.LittleEndian)
		if err != nil {
			return nil, err
		}
		length, err := dec.ReadUint16(encbin.LittleEndian)
		if err != nil {
			return nil, err
		}
		if typ == extensionUninitialized {
			break
		}
		value, err := dec.ReadNBytes(int(length))
		if err != nil {
			return nil, errors.Wrapf(shared.ErrInvalidAccountData, "extension %d truncated", typ)
		}
		if typ != extensionTransferFeeConfig {
			continue
		}
		if length != transferFeeConfigLen {
			return nil, errors.Wrapf(shared.ErrInvalidAccountData, "transfer fee config length %d", length)
		}
		return decodeTransferFeeConfig(value)
	}
	return nil, nil
}

// decodeTransferFeeConfig skips the two authorities, which are plain
// 32 byte keys with zero meaning none.
func decodeTransferFeeConfig(value []byte) (*math.TransferFeeConfig, error) {
	dec := binary.NewBinDecoder(value[64:])
	cfg := &math.TransferFeeConfig{}
	var err error
	if cfg.WithheldAmount, err = dec.ReadUint64(encbin.LittleEndian); err != nil {
		return nil, err
	}
	for _, fee := range []*math.TransferFee{&cfg.Older, &cfg.Newer} {
		if fee.Epoch, err = dec.ReadUint64(encbin.LittleEndian); err != nil {
			return nil, err
		}
		if fee.MaxFee, err = dec.ReadUint64(encbin.LittleEndian); err != nil {
			return nil, err
		}
		if fee.FeeBps, err = dec.ReadUint16(encbin.LittleEndian); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
