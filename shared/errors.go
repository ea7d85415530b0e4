package shared

// GammaError is the error code space of the pricing core.
type GammaError uint32

const (
	ErrMathOverflow GammaError = iota + 6000
	ErrMathError
	ErrInvalidFee
	ErrZeroTradingTokens
	ErrExceededSlippage
	ErrMaxRewardsReached
	ErrExceededMaxPartnersForPool
	ErrInvalidPartner
	ErrPartnerAlreadyExists
	ErrInvalidRewardTime
	ErrInvalidSnapshotOrder
	ErrInvalidAccountData
	ErrInvalidVault
	ErrNotApproved
)

var gammaErrorMessages = map[GammaError]string{
	ErrMathOverflow:               "math overflow",
	ErrMathError:                  "math error",
	ErrInvalidFee:                 "invalid fee",
	ErrZeroTradingTokens:          "zero trading tokens",
	ErrExceededSlippage:           "exceeds desired slippage limit",
	ErrMaxRewardsReached:          "max rewards reached",
	ErrExceededMaxPartnersForPool: "exceeded max partners for pool",
	ErrInvalidPartner:             "invalid partner",
	ErrPartnerAlreadyExists:       "partner already exists",
	ErrInvalidRewardTime:          "invalid reward time",
	ErrInvalidSnapshotOrder:       "snapshot timestamp precedes the latest snapshot",
	ErrInvalidAccountData:         "invalid account data",
	ErrInvalidVault:               "invalid vault",
	ErrNotApproved:                "operation not approved by pool status",
}

func (e GammaError) Error() string {
	if msg, ok := gammaErrorMessages[e]; ok {
		return msg
	}
	return "unknown gamma error"
}

// Code returns the numeric error code.
func (e GammaError) Code() uint32 {
	return uint32(e)
}

type remappedError struct {
	code  GammaError
	cause error
}

// Remap reports cause as code. Both stay on the chain, so errors.Is
// matches either.
func Remap(code GammaError, cause error) error {
	return &remappedError{code: code, cause: cause}
}

func (e *remappedError) Error() string {
	return e.code.Error() + ": " + e.cause.Error()
}

func (e *remappedError) Unwrap() []error {
	return []error{e.code, e.cause}
}
