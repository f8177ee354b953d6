package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// askOneFunc allows mocking survey prompts in tests.
var askOneFunc = survey.AskOne

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactively set up scons-time configuration",
		Long:  `Runs an interactive wizard to configure the build tool, project name, history storage backend, and webhook notifications, and writes the result to the config file.`,
		RunE:  runConfigure,
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), "scons-time configuration")
	fmt.Fprintln(cmd.OutOrStdout(), "------------------------")

	answers := struct {
		Tool         string
		Project      string
		Backend      string
		Path         string
		DSN          string
		EnableNotify bool
		WebhookURL   string
	}{}

	err := askOneFunc(&survey.Input{
		Message: "Build tool executable:",
		Default: viper.GetString("tool"),
	}, &answers.Tool)
	if err != nil {
		return err
	}

	err = askOneFunc(&survey.Input{
		Message: "Project name for stored history:",
		Default: viper.GetString("project"),
	}, &answers.Project)
	if err != nil {
		return err
	}

	err = askOneFunc(&survey.Select{
		Message: "History storage backend:",
		Options: []string{"sqlite", "json", "postgres"},
		Default: viper.GetString("history.backend"),
	}, &answers.Backend)
	if err != nil {
		return err
	}

	switch answers.Backend {
	case "postgres":
		err = askOneFunc(&survey.Input{
			Message: "Postgres DSN:",
		}, &answers.DSN)
	case "json":
		err = askOneFunc(&survey.Input{
			Message: "History directory:",
			Default: viper.GetString("history.dir"),
		}, &answers.Path)
	default:
		err = askOneFunc(&survey.Input{
			Message: "Database path:",
			Default: viper.GetString("history.path"),
		}, &answers.Path)
	}
	if err != nil {
		return err
	}

	err = askOneFunc(&survey.Confirm{
		Message: "Enable webhook notifications?",
		Default: viper.GetBool("notify.enabled"),
	}, &answers.EnableNotify)
	if err != nil {
		return err
	}
	if answers.EnableNotify {
		err = askOneFunc(&survey.Input{
			Message: "Webhook URL:",
			Default: viper.GetString("notify.webhook_url"),
		}, &answers.WebhookURL)
		if err != nil {
			return err
		}
	}

	viper.Set("tool", answers.Tool)
	viper.Set("project", answers.Project)
	viper.Set("history.backend", answers.Backend)
	if answers.Path != "" {
		if answers.Backend == "json" {
			viper.Set("history.dir", answers.Path)
		} else {
			viper.Set("history.path", answers.Path)
		}
	}
	if answers.DSN != "" {
		viper.Set("history.dsn", answers.DSN)
	}
	viper.Set("notify.enabled", answers.EnableNotify)
	if answers.WebhookURL != "" {
		viper.Set("notify.webhook_url", answers.WebhookURL)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "scons-time.yaml"
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("write %s: %w", configFile, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", configFile)
	return nil
}
