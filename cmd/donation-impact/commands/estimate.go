package commands

import (
	"fmt"

	"github.com/iwvelando/donation-impact/internal/calculator"
	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/iwvelando/donation-impact/pkg/output"
	"github.com/iwvelando/donation-impact/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func estimateCmd() *cobra.Command {
	var currencyCode, outputFormatFlag string

	cmd := &cobra.Command{
		Use:   "estimate [amount...]",
		Short: "Print the impact of one or more donations",
		Long: `Print the bed nets bought, people protected, expected lives saved and the
chance of saving at least one life for each amount. With no amount the
default donation is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Determine output format (CLI override takes precedence over config)
			outputFormat := conf.Output.Format
			if outputFormatFlag != "" {
				outputFormat = outputFormatFlag
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			code, err := currency.ParseCode(currencyCode)
			if err != nil {
				return err
			}

			results, err := estimateAll(calc, code, args)
			if err != nil {
				logger.Debug("estimate rejected",
					zap.String("op", "commands.estimate"),
					zap.Error(err),
				)
				return err
			}
			return output.Write(cmd.OutOrStdout(), outputFormat, results)
		},
	}

	cmd.Flags().StringVar(&currencyCode, "currency", currency.Default.String(), "currency of the amounts (USD, EUR, GBP)")
	cmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")
	return cmd
}

// estimateAll computes a result per raw amount, or one for the default amount
// when none is given. The first rejected amount aborts the run.
func estimateAll(c *calculator.Calculator, code currency.Code, amounts []string) ([]calculator.Result, error) {
	if len(amounts) == 0 {
		amounts = []string{""}
	}

	initial := calculator.InitialState().Select(code)
	results := make([]calculator.Result, 0, len(amounts))
	for _, raw := range amounts {
		state, err := initial.Edit(raw)
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", raw, err)
		}
		result, err := c.Compute(state)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
