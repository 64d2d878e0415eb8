package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tekhekspert/lead-capture/internal/entity"
)

var errInvalidPhone = errors.New("invalid phone")

func formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format <raw>...",
		Short: "Print the masked form of raw input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), entity.FormatPhone(strings.Join(args, " ")))
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <phone>",
		Short: "Exit non-zero unless phone is 7 followed by 10 digits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phone := strings.Join(args, " ")
			if !entity.ValidatePhone(phone) {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", phone)
				return errInvalidPhone
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s (%s)\n", entity.FormatPhone(phone), entity.PhoneE164(phone))
			return nil
		},
	}
}
