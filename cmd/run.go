// Package cmd implements the command-line interface for fedigrab.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/fedigrab-cli/fedigrab/auth"
	"github.com/fedigrab-cli/fedigrab/credential"
	"github.com/fedigrab-cli/fedigrab/inline"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("json", "j", false, "Output the results as a JSON document")
	runCmd.Flags().Bool("json-schema", false, "Print the JSON schema of the output document and exit")
	runCmd.Flags().BoolP("describe", "d", false, "Include titles and word-wrapped descriptions in plain output")
	runCmd.Flags().StringP("login", "l", "", "Use this credential (user[@email]@instance) instead of the configured one")

	runCmd.SetOut(rootCmd.OutOrStdout())
}

// runCmd extracts media records from the given post references.
var runCmd = &cobra.Command{
	Use:   "run [urls...]",
	Short: "Extract media records from fediverse post URLs",
	Long: `Extract media records from fediverse post URLs.

Accepts full post URLs (Mastodon, Pleroma, Gab Social, PeerTube),
abbreviated instance:id references, and software-qualified references
like mastodon:instance:id. With a configured login, posts on other
instances are resolved through the home instance's federated search.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		options := &inline.Options{
			Out:        cmd.OutOrStdout(),
			URLs:       args,
			Json:       lo.Must(cmd.Flags().GetBool("json")),
			JsonSchema: lo.Must(cmd.Flags().GetBool("json-schema")),
			Describe:   lo.Must(cmd.Flags().GetBool("describe")),
			Passwords:  promptingPasswords,
		}

		if raw := lo.Must(cmd.Flags().GetString("login")); raw != "" {
			login, err := credential.ParseLogin(raw)
			handleErr(err)
			options.Login = mo.Some(login)
		}

		if len(args) == 0 && !options.JsonSchema {
			handleErr(errors.New("at least one url is required"))
		}

		handleErr(inline.Run(context.Background(), options))
	},
}

// promptingPasswords reads the instance password from the keyring and falls
// back to an interactive prompt, storing the answer for next time.
func promptingPasswords(instanceHost string) (string, error) {
	password, err := auth.KeyringPasswords(instanceHost)
	if err == nil {
		return password, nil
	}

	prompt := survey.Password{Message: fmt.Sprintf("Password for %s:", instanceHost)}
	if err := survey.AskOne(&prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	if err := credential.SetPassword(instanceHost, password); err != nil {
		return "", err
	}
	return password, nil
}
