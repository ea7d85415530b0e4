package quote

import (
	"encoding/base64"
	"math/big"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/gamma-go/shared"
)

// ParseQuoteInput reads a quote request:
//
//	{
//	  "sourceAmountToBeSwapped": 100000 | "100000",
//	  "ammConfigData":        {"type":"Buffer","data":[...]} | [...] | "base64",
//	  "poolStateData":        ...,
//	  "observationStateData": ...,
//	  "zeroForOne": true,
//	  "isInvokedBySignedSegmenter": false
//	}
func ParseQuoteInput(raw []byte) (QuoteInput, error) {
	if !gjson.ValidBytes(raw) {
		return QuoteInput{}, errors.New("quote input is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)

	amount, err := parseAmount(doc.Get("sourceAmountToBeSwapped"))
	if err != nil {
		return QuoteInput{}, errors.Wrap(err, "sourceAmountToBeSwapped")
	}
	in := QuoteInput{
		Amount:                     amount,
		ZeroForOne:                 doc.Get("zeroForOne").Bool(),
		IsInvokedBySignedSegmenter: doc.Get("isInvokedBySignedSegmenter").Bool(),
	}
	fields := []struct {
		name string
		dst  *[]byte
	}{
		{"ammConfigData", &in.AmmConfigData},
		{"poolStateData", &in.PoolStateData},
		{"observationStateData", &in.ObservationStateData},
	}
	for _, f := range fields {
		if *f.dst, err = parseBytes(doc.Get(f.name)); err != nil {
			return QuoteInput{}, errors.Wrap(err, f.name)
		}
	}
	return in, nil
}

// parseAmount accepts a JSON integer or a decimal string in u64 range.
// Numbers are read from their raw text so large values keep every digit.
func parseAmount(r gjson.Result) (*big.Int, error) {
	var text string
	switch r.Type {
	case gjson.Number:
		text = r.Raw
	case gjson.String:
		text = r.Str
	default:
		return nil, errors.New("missing amount")
	}
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", text)
	}
	if v.Sign() < 0 || v.Cmp(shared.U64Max) > 0 {
		return nil, errors.Errorf("amount %s out of u64 range", text)
	}
	return v, nil
}

// parseBytes accepts a Node Buffer's JSON form, a plain byte array or a
// base64 string.
func parseBytes(r gjson.Result) ([]byte, error) {
	if r.IsObject() {
		if t := r.Get("type").String(); t != "Buffer" {
			return nil, errors.Errorf("unsupported object type %q", t)
		}
		r = r.Get("data")
	}
	switch {
	case r.IsArray():
		items := r.Array()
		out := make([]byte, len(items))
		for i, item := range items {
			if item.Type != gjson.Number {
				return nil, errors.Errorf("byte %d is not a number", i)
			}
			n := item.Int()
			if n < 0 || n > 255 || float64(n) != item.Num {
				return nil, errors.Errorf("byte %d out of range: %s", i, item.Raw)
			}
			out[i] = byte(n)
		}
		return out, nil
	case r.Type == gjson.String:
		out, err := base64.StdEncoding.DecodeString(r.Str)
		if err != nil {
			return nil, errors.Wrap(err, "decode base64")
		}
		return out, nil
	case !r.Exists():
		return nil, errors.New("missing account data")
	default:
		return nil, errors.Errorf("unsupported account data %s", r.Raw)
	}
}
