package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krazyTry/gamma-go/quote"
)

func newQuoteCmd(opts *options) *cobra.Command {
	var kindName, file string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a JSON quote request",
		Long: `Reads a quote request (amount, direction and the three raw accounts)
and prints the swap result as JSON. Account data may be a Buffer object, a
byte array or a base64 string.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(kindName)
			if err != nil {
				return err
			}
			raw, err := readRequest(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			out, err := opts.quoter().QuoteJSON(kind, raw)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", quote.KindOracleBasedSwap.String(), "base-input, oracle or base-output")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "request file, - for stdin")
	return cmd
}

func readRequest(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		raw, err := io.ReadAll(stdin)
		return raw, errors.Wrap(err, "read stdin")
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", file)
	}
	return raw, nil
}
