// Command autocontrol prints the auto-control decision for one reading.
//
//	autocontrol '{"T":30,"RH":70,"state_now":{"power":true,"setpoint":30}}'
//	echo '{"T":25,"RH":40}' | autocontrol
//
// The output is the JSON string "skip" or the command object. Errors go to
// stderr with exit status 1 and nothing is written to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"aircon_control/internal/control"
	"aircon_control/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "autocontrol:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	p := control.DefaultParams()
	var verbose bool

	cmd := &cobra.Command{
		Use:   "autocontrol [payload]",
		Short: "Decide the air-conditioner command for a reading",
		Long: `Reads {"T":..,"RH":..,"state_now":{..}} from the argument or stdin
and prints "skip" or the command to send.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := p.Validate(); err != nil {
				return err
			}
			payload, err := readPayload(stdin, args)
			if err != nil {
				return err
			}
			req, err := control.ParseRequest(payload)
			if err != nil {
				return err
			}
			d := req.Decide(p)
			if verbose {
				log := logger.New(logger.DebugLevel, cmd.ErrOrStderr())
				log.Debugw("decision", "t", req.T, "rh", req.RH, "di", d.DI, "outcome", d.Outcome())
				_ = log.Sync()
			}
			out, err := json.Marshal(d)
			if err != nil {
				return fmt.Errorf("encode decision: %w", err)
			}
			_, err = fmt.Fprintln(stdout, string(out))
			return err
		},
	}

	f := cmd.Flags()
	f.Float64Var(&p.TargetDI, "target-di", p.TargetDI, "discomfort index to bring the room down to")
	f.Float64Var(&p.StartDI, "start-di", p.StartDI, "discomfort index at which control starts")
	f.Float64Var(&p.MinSetpointC, "min-setpoint", p.MinSetpointC, "lowest setpoint in °C")
	f.Float64Var(&p.DryRatePerHour, "dry-rate", p.DryRatePerHour, "RH points removed per hour of dry mode")
	f.BoolVarP(&verbose, "verbose", "v", false, "log the discomfort index to stderr")
	return cmd
}

// readPayload takes the single argument, or stdin when none or "-".
func readPayload(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}
