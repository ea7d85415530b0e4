package gamma

import (
	"github.com/krazyTry/gamma-go/quote"
	"github.com/krazyTry/gamma-go/rpc"
)

// NewQuoter creates a quoter over raw account data.
//
// Example:
//
// q := NewQuoter()
//
// out, _ := q.QuoteJSON(quote.KindOracleBasedSwap, request)
var NewQuoter = quote.NewQuoter

// NewStateService creates an RPC-backed account loader.
//
// Example:
//
// svc, _ := NewStateService(rpc.New(rpc.MainNetBeta_RPC), gammarpc.Options{})
//
// accounts, _ := svc.GetPoolAccounts(ctx, pool)
var NewStateService = rpc.NewStateService

// ParseQuoteInput reads a JSON quote request.
var ParseQuoteInput = quote.ParseQuoteInput
