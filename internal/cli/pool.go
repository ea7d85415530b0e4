package cli

import (
	"encoding/json"
	"math/big"
	"strconv"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krazyTry/gamma-go/curve"
	"github.com/krazyTry/gamma-go/quote"
	"github.com/krazyTry/gamma-go/rpc"
	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
)

type vaultsJSON struct {
	Token0               string `json:"token0"`
	Token1               string `json:"token1"`
	LatestDynamicFeeRate string `json:"latestDynamicFeeRate"`
}

type transferJSON struct {
	InputTransferAmount  string `json:"inputTransferAmount"`
	InputTransferFee     string `json:"inputTransferFee"`
	OutputTransferAmount string `json:"outputTransferAmount"`
	OutputTransferFee    string `json:"outputTransferFee"`
}

type poolReport struct {
	Pool     string               `json:"pool"`
	Kind     string               `json:"kind"`
	Result   quote.SwapResultJSON `json:"result"`
	Transfer *transferJSON        `json:"transfer,omitempty"`
	Vaults   *vaultsJSON          `json:"vaults,omitempty"`
	After    *vaultsJSON          `json:"after,omitempty"`
}

type poolFlags struct {
	kind         string
	amount       string
	zeroForOne   bool
	segmenter    bool
	apply        bool
	transferFees bool
	checkVaults  bool
}

func newPoolCmd(opts *options) *cobra.Command {
	var f poolFlags
	cmd := &cobra.Command{
		Use:   "pool <address>",
		Short: "Fetch a pool over RPC and quote against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := solanago.PublicKeyFromBase58(args[0])
			if err != nil {
				return errors.Wrap(err, "pool address")
			}
			svc, err := rpc.NewStateServiceFromConfig(opts.cfg)
			if err != nil {
				return err
			}
			report, err := runPoolQuote(cmd, opts, svc, key, f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&f.kind, "kind", quote.KindOracleBasedSwap.String(), "base-input, oracle or base-output")
	cmd.Flags().StringVar(&f.amount, "amount", "", "source amount, or the desired output for base-output")
	cmd.Flags().BoolVar(&f.zeroForOne, "zero-for-one", true, "swap token0 for token1")
	cmd.Flags().BoolVar(&f.segmenter, "segmenter", false, "quote as a signed segmenter")
	cmd.Flags().BoolVar(&f.apply, "apply", false, "print the vaults after settling the swap")
	cmd.Flags().BoolVar(&f.transferFees, "transfer-fees", false, "apply token-2022 transfer fees (base-output only)")
	cmd.Flags().BoolVar(&f.checkVaults, "check-vaults", false, "read the vault token accounts and report their balances")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 || v.Cmp(shared.U64Max) > 0 {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func runPoolQuote(cmd *cobra.Command, opts *options, svc *rpc.StateService, key solanago.PublicKey, f poolFlags) (poolReport, error) {
	kind, err := parseKind(f.kind)
	if err != nil {
		return poolReport{}, err
	}
	if f.transferFees && kind != quote.KindSwapBaseOutput {
		return poolReport{}, errors.New("--transfer-fees needs --kind base-output")
	}
	amount, err := parseAmount(f.amount)
	if err != nil {
		return poolReport{}, err
	}

	ctx := cmd.Context()
	pa, err := svc.GetPoolAccounts(ctx, key)
	if err != nil {
		return poolReport{}, err
	}
	acc := quote.Accounts{Config: pa.Config, Pool: pa.Pool, Observations: pa.Observations}
	if err := acc.Config.Validate(); err != nil {
		return poolReport{}, errors.Wrap(err, "amm config")
	}

	in := quote.QuoteInput{Amount: amount, ZeroForOne: f.zeroForOne, IsInvokedBySignedSegmenter: f.segmenter}
	q := opts.quoter()
	p, err := q.Params(&in, &acc)
	if err != nil {
		return poolReport{}, err
	}

	report := poolReport{Pool: key.String(), Kind: kind.String()}
	if f.checkVaults {
		balances, err := svc.GetVaultBalances(ctx, &pa.Pool)
		if err != nil {
			return poolReport{}, err
		}
		report.Vaults = &vaultsJSON{
			Token0:               strconv.FormatUint(balances.Token0, 10),
			Token1:               strconv.FormatUint(balances.Token1, 10),
			LatestDynamicFeeRate: strconv.FormatUint(pa.Pool.LatestDynamicFeeRate, 10),
		}
	}
	var result shared.SwapResult
	if f.transferFees {
		inMint, outMint := pa.Pool.Token0Mint, pa.Pool.Token1Mint
		if !f.zeroForOne {
			inMint, outMint = outMint, inMint
		}
		inputFee, err := svc.GetTransferFeeConfig(ctx, inMint)
		if err != nil {
			return poolReport{}, err
		}
		outputFee, err := svc.GetTransferFeeConfig(ctx, outMint)
		if err != nil {
			return poolReport{}, err
		}
		epoch, err := svc.CurrentEpoch(ctx)
		if err != nil {
			return poolReport{}, err
		}
		tr, err := curve.SwapBaseOutputWithTransferFees(p, inputFee, outputFee, epoch)
		if err != nil {
			return poolReport{}, errors.Wrap(shared.Remap(shared.ErrZeroTradingTokens, err), "swap base output")
		}
		result = tr.SwapResult
		report.Transfer = &transferJSON{
			InputTransferAmount:  tr.InputTransferAmount.String(),
			InputTransferFee:     tr.InputTransferFee.String(),
			OutputTransferAmount: tr.OutputTransferAmount.String(),
			OutputTransferFee:    tr.OutputTransferFee.String(),
		}
	} else if result, err = q.Swap(kind, p); err != nil {
		return poolReport{}, err
	}
	report.Result = quote.NewSwapResultJSON(result)

	if f.apply {
		after, err := settle(&pa.Pool, result, in.Direction())
		if err != nil {
			return poolReport{}, err
		}
		report.After = &vaultsJSON{
			Token0:               strconv.FormatUint(after.Token0VaultAmount, 10),
			Token1:               strconv.FormatUint(after.Token1VaultAmount, 10),
			LatestDynamicFeeRate: strconv.FormatUint(after.LatestDynamicFeeRate, 10),
		}
	}
	return report, nil
}

func settle(pool *states.PoolState, result shared.SwapResult, direction shared.TradeDirection) (states.PoolState, error) {
	delta, err := curve.Settle(pool, result, direction, nil)
	if err != nil {
		return states.PoolState{}, errors.Wrap(err, "settle")
	}
	next, err := pool.ApplyDelta(delta)
	if err != nil {
		return states.PoolState{}, errors.Wrap(err, "apply delta")
	}
	return next, nil
}
