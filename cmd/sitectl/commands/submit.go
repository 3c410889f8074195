package commands

import (
	"fmt"
	"time"

	"dumarte_backend/internal/captcha"
	"dumarte_backend/internal/quotes"
	"dumarte_backend/internal/quotes/service"
	"dumarte_backend/platform/validator"

	"github.com/spf13/cobra"
)

// submit: run one quote request through the same flow as the web form.
func submitCmd() *cobra.Command {
	var (
		fields    service.RawFields
		budget    string
		token     string
		tokenFile string
		poll      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a quote request through the contact flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var tokens captcha.TokenProvider
			switch {
			case token != "":
				tokens = captcha.PresentedToken(token)
			case tokenFile != "":
				provider := captcha.NewPollingProvider(captcha.FileSource(tokenFile))
				provider.Interval = poll
				tokens = provider
			default:
				return fmt.Errorf("a CAPTCHA token is required (--token or --token-file)")
			}

			if cmd.Flags().Changed("budget") {
				fields.BudgetCode = &budget
			}

			module := quotes.NewModule(cfg, nil, validator.New(), log)
			outcome := module.Flow().Submit(cmd.Context(), fields, tokens)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", outcome.Title, outcome.Message)
			fmt.Fprintf(out, "submission: %s\n", outcome.SubmissionID)
			if !outcome.Success {
				fmt.Fprintf(out, "kind=%s cause=%s\n", outcome.Kind, outcome.Cause)
				return fmt.Errorf("quote request not delivered")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fields.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&fields.Email, "email", "", "customer email")
	cmd.Flags().StringVar(&fields.Phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&fields.City, "city", "", "city")
	cmd.Flags().StringVar(&fields.ServiceCode, "service", "", "service code (see quotes options)")
	cmd.Flags().StringVar(&budget, "budget", "", "budget code")
	cmd.Flags().StringVar(&fields.Message, "message", "", "project description")
	cmd.Flags().StringVar(&token, "token", "", "CAPTCHA token already solved")
	cmd.Flags().StringVar(&tokenFile, "token-file", "", "file a CAPTCHA token will be written to")
	cmd.Flags().DurationVar(&poll, "poll", captcha.DefaultPollInterval, "token file poll interval")
	return cmd
}
