package quote

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/krazyTry/gamma-go/curve"
	"github.com/krazyTry/gamma-go/internal/logger"
	"github.com/krazyTry/gamma-go/shared"
	"github.com/krazyTry/gamma-go/states"
)

// Quoter prices swaps against raw account data the way the program would
// at the current time.
type Quoter struct {
	// Now is the clock used for oracle freshness and the fee window.
	Now func() time.Time

	log zerolog.Logger
}

func NewQuoter() *Quoter {
	return &Quoter{
		Now: time.Now,
		log: logger.GetForComponent("quote"),
	}
}

// Accounts is the decoded state a quote runs on.
type Accounts struct {
	Config       states.AmmConfig
	Pool         states.PoolState
	Observations states.ObservationState
}

// DecodeAccounts decodes and validates the account data of in.
func DecodeAccounts(in *QuoteInput) (Accounts, error) {
	var (
		acc Accounts
		err error
	)
	if acc.Config, err = states.DecodeAmmConfig(in.AmmConfigData); err != nil {
		return Accounts{}, errors.Wrap(err, "decode amm config")
	}
	if err = acc.Config.Validate(); err != nil {
		return Accounts{}, errors.Wrap(err, "amm config")
	}
	if acc.Pool, err = states.DecodePoolState(in.PoolStateData); err != nil {
		return Accounts{}, errors.Wrap(err, "decode pool state")
	}
	if acc.Observations, err = states.DecodeObservationState(in.ObservationStateData); err != nil {
		return Accounts{}, errors.Wrap(err, "decode observation state")
	}
	return acc, nil
}

// Params builds the calculator input for a quote over decoded accounts.
func (q *Quoter) Params(in *QuoteInput, acc *Accounts) (curve.SwapParams, error) {
	if !acc.Pool.GetStatusByBit(shared.PoolStatusBitSwap) {
		return curve.SwapParams{}, errors.Wrap(shared.ErrNotApproved, "swap disabled")
	}
	now := q.Now().Unix()
	if now < 0 {
		return curve.SwapParams{}, errors.Errorf("clock before epoch: %d", now)
	}
	return curve.NewSwapParams(in.Amount, in.Direction(), &acc.Config, &acc.Pool, &acc.Observations, uint64(now), in.IsInvokedBySignedSegmenter), nil
}

// calculatorError reports a calculator failure as ErrZeroTradingTokens,
// the error the program surfaces for a swap it cannot price. The cause
// stays matchable.
func calculatorError(err error, op string) error {
	return errors.Wrap(shared.Remap(shared.ErrZeroTradingTokens, err), op)
}

// Swap runs the calculator selected by kind.
func (q *Quoter) Swap(kind Kind, p curve.SwapParams) (shared.SwapResult, error) {
	var (
		result shared.SwapResult
		err    error
	)
	switch kind {
	case KindSwapBaseInput:
		result, err = curve.SwapBaseInput(p)
	case KindOracleBasedSwap:
		var decision curve.OracleDecision
		result, decision, err = curve.OracleSwapBaseInput(p)
		if err == nil {
			q.logDecision(decision)
		}
	case KindSwapBaseOutput:
		result, err = curve.SwapBaseOutput(p)
	default:
		return shared.SwapResult{}, errors.Errorf("unknown quote kind %d", kind)
	}
	if err != nil {
		q.log.Error().Err(err).Stringer("kind", kind).Str("amount", p.Amount.String()).Msg("quote failed")
		return shared.SwapResult{}, calculatorError(err, kind.op())
	}
	return result, nil
}

func (q *Quoter) logDecision(d curve.OracleDecision) {
	if d.Kind == curve.DecisionCurveOnly {
		q.log.Debug().Stringer("reason", d.Reason).Msg("oracle fallback to curve")
		return
	}
	q.log.Debug().
		Str("oracleTranche", d.OracleTranche.String()).
		Str("curveTranche", d.CurveTranche.String()).
		Msg("oracle blend")
}

// QuoteAccounts runs kind over already decoded accounts.
func (q *Quoter) QuoteAccounts(kind Kind, in QuoteInput, acc *Accounts) (SwapResultJSON, error) {
	p, err := q.Params(&in, acc)
	if err != nil {
		return SwapResultJSON{}, err
	}
	result, err := q.Swap(kind, p)
	if err != nil {
		return SwapResultJSON{}, err
	}
	return NewSwapResultJSON(result), nil
}

// Quote decodes the account data of in and runs kind.
func (q *Quoter) Quote(kind Kind, in QuoteInput) (SwapResultJSON, error) {
	acc, err := DecodeAccounts(&in)
	if err != nil {
		return SwapResultJSON{}, err
	}
	return q.QuoteAccounts(kind, in, &acc)
}

// GetSwapBaseInputQuote prices a swap of in.Amount on the curve alone.
func (q *Quoter) GetSwapBaseInputQuote(in QuoteInput) (SwapResultJSON, error) {
	return q.Quote(KindSwapBaseInput, in)
}

// GetOracleBasedSwapQuote prices a swap of in.Amount with the oracle
// tranche when the oracle passes its gates.
func (q *Quoter) GetOracleBasedSwapQuote(in QuoteInput) (SwapResultJSON, error) {
	return q.Quote(KindOracleBasedSwap, in)
}

// GetSwapBaseOutputQuote prices the input needed to receive in.Amount.
func (q *Quoter) GetSwapBaseOutputQuote(in QuoteInput) (SwapResultJSON, error) {
	return q.Quote(KindSwapBaseOutput, in)
}

// QuoteJSON parses a JSON request, runs kind and encodes the result.
func (q *Quoter) QuoteJSON(kind Kind, raw []byte) ([]byte, error) {
	in, err := ParseQuoteInput(raw)
	if err != nil {
		return nil, err
	}
	out, err := q.Quote(kind, in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}
