package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/usecase"
)

// submit <phone>: one attempt, same rules as the site forms.
func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <phone>",
		Short: "Send one lead to the notification chat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phone := entity.FormatPhone(strings.Join(args, " "))
			if !entity.ValidatePhone(phone) {
				return fmt.Errorf("%s", usecase.MsgInvalidPhone)
			}

			result := submitter.Submit(cmd.Context(), phone, source)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", result.Outcome, phone, source)
			if !result.Sent() {
				return fmt.Errorf("%s: %w", result.FailureKind(), result.Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", entity.SourceContactForm, "source label shown in the notification")
	return cmd
}

// form: every input line replaces the field content; an empty line submits,
// "q" quits.
func formCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Interactive lead form session",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			form := usecase.NewLeadForm(source, submitter, 0)
			defer form.Close()

			form.OnChange = func(s usecase.FormSnapshot) {
				line := fmt.Sprintf("[%s] %q", s.State, s.Phone)
				if s.Error != "" {
					line += " ! " + s.Error
				}
				fmt.Fprintln(out, line)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := scanner.Text()
				switch strings.TrimSpace(line) {
				case "q":
					return nil
				case "":
					if _, err := form.Submit(cmd.Context()); err != nil && !usecase.IsDomainError(err) {
						fmt.Fprintf(out, "! %v\n", err)
					}
				default:
					form.Input(line)
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&source, "source", entity.SourceContactForm, "source label of this form")
	return cmd
}
