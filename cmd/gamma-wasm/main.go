//go:build js && wasm

// Command gamma-wasm exposes the quote functions to JavaScript:
//
//	getSwapBaseInputQuoteAmount(input)
//	getOracleBasedSwapQuoteAmount(input)
//	getSwapBaseOutputQuoteAmount(input)
//
// input carries sourceAmountToBeSwapped (number, bigint or string), the
// three account buffers and the direction flags. Each call returns the
// swap result object, or an Error when the quote fails.
package main

import (
	"syscall/js"

	"github.com/pkg/errors"

	"github.com/krazyTry/gamma-go/internal/logger"
	"github.com/krazyTry/gamma-go/quote"
)

func main() {
	logger.Initialize("error")
	q := quote.NewQuoter()

	exports := map[string]quote.Kind{
		"getSwapBaseInputQuoteAmount":   quote.KindSwapBaseInput,
		"getOracleBasedSwapQuoteAmount": quote.KindOracleBasedSwap,
		"getSwapBaseOutputQuoteAmount":  quote.KindSwapBaseOutput,
	}
	for name, kind := range exports {
		js.Global().Set(name, quoteFunc(q, kind))
	}
	select {}
}

func quoteFunc(q *quote.Quoter, kind quote.Kind) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) != 1 {
			return jsError(errors.New("expected a single quote input"))
		}
		raw, err := stringify(args[0])
		if err != nil {
			return jsError(err)
		}
		out, err := q.QuoteJSON(kind, []byte(raw))
		if err != nil {
			return jsError(err)
		}
		return js.Global().Get("JSON").Call("parse", string(out))
	})
}

// stringify serialises the input with bigints as decimal strings and
// typed arrays as plain arrays. Buffers already serialise through toJSON.
func stringify(v js.Value) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("serialise quote input: %v", r)
		}
	}()
	uint8Array := js.Global().Get("Uint8Array")
	replacer := js.FuncOf(func(this js.Value, args []js.Value) any {
		key, val := args[0].String(), args[1]
		switch {
		case key == "sourceAmountToBeSwapped" && !val.IsUndefined() && !val.IsNull():
			return val.Call("toString")
		case val.InstanceOf(uint8Array):
			return js.Global().Get("Array").Call("from", val)
		default:
			return val
		}
	})
	defer replacer.Release()
	return js.Global().Get("JSON").Call("stringify", v, replacer).String(), nil
}

func jsError(err error) js.Value {
	return js.Global().Get("Error").New(err.Error())
}
