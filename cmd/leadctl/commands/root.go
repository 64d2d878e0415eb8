package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tekhekspert/lead-capture/internal/config"
	"github.com/tekhekspert/lead-capture/internal/infra/integration/telegram"
	"github.com/tekhekspert/lead-capture/internal/usecase"
)

var (
	source    string
	submitter usecase.LeadSubmitter
)

// NewRootCmd builds the command tree. A non-nil sub replaces the Telegram
// submitter, which is how tests run without network access.
func NewRootCmd(sub usecase.LeadSubmitter) *cobra.Command {
	root := &cobra.Command{
		Use:          "leadctl",
		Short:        "Phone mask and lead submission tool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if sub != nil {
				submitter = sub
				return nil
			}
			cfg := config.Load()
			client := telegram.NewClient(cfg.Telegram, &http.Client{})
			submitter = usecase.NewSubmitLeadUseCase(client, cfg.SubmitTimeout)
			return nil
		},
	}

	root.AddCommand(formatCmd(), validateCmd(), submitCmd(), formCmd())
	return root
}

func Execute() error {
	return NewRootCmd(nil).Execute()
}
