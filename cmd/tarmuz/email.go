package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tarmuz-dev/tarmuz/internal/mailer"
)

var emailTo string

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Outbound email tools",
}

var emailTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify SMTP credentials and send a test message",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("EMAIL_USER: %s\n", presence(cfg.Email.User))
		fmt.Printf("EMAIL_PASS: %s\n", presence(cfg.Email.Password))
		fmt.Printf("EMAIL_TO:   %s\n", presence(cfg.Email.To))

		if !cfg.Email.Configured() {
			return mailer.ErrNotConfigured
		}

		to := emailTo
		if to == "" {
			to = cfg.Email.To
		}
		if to == "" {
			return fmt.Errorf("no recipient: pass --to or set EMAIL_TO")
		}

		sender := mailer.NewSMTPSender(mailer.SMTPOptions{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			User:     cfg.Email.User,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})

		if err := sender.Verify(); err != nil {
			return err
		}
		fmt.Println("SMTP connection verified")

		err = sender.Send(cmd.Context(), mailer.Message{
			To:      to,
			Subject: "Tarmuz email test",
			Text:    "This is a test message from the tarmuz email command.",
			HTML:    fmt.Sprintf("<p>Test email sent at %s</p>", time.Now().UTC().Format(time.RFC3339)),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Test email sent to %s\n", to)
		return nil
	},
}

func presence(v string) string {
	if v == "" {
		return "missing"
	}
	return "set"
}

func init() {
	emailTestCmd.Flags().StringVar(&emailTo, "to", "", "recipient, defaults to EMAIL_TO")
	emailCmd.AddCommand(emailTestCmd)
	rootCmd.AddCommand(emailCmd)
}
