// Package cmd implements the command-line interface for fedigrab.
package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fedigrab-cli/fedigrab/color"
	"github.com/fedigrab-cli/fedigrab/credential"
	"github.com/fedigrab-cli/fedigrab/icon"
	"github.com/fedigrab-cli/fedigrab/instance"
	"github.com/fedigrab-cli/fedigrab/key"
	"github.com/fedigrab-cli/fedigrab/style"
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().BoolP("delete", "d", false, "Forget the configured credential and its stored password")
}

// loginCmd stores the home-instance credential and its password.
var loginCmd = &cobra.Command{
	Use:   "login [user[@email]@instance]",
	Short: "Store the home-instance account used for authenticated extraction",
	Long: `Store the home-instance account used for authenticated extraction.

The part after the last @ is the instance the account lives on. The
password is asked for interactively and kept in the system keyring,
never in the configuration file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("delete")) {
			deleteLogin()
			return
		}

		if len(args) == 0 {
			handleErr(errors.New("credential is required, e.g. fedigrab login me@mail.example@mstdn.jp"))
		}

		login, err := credential.ParseLogin(args[0])
		handleErr(err)

		if instance.Classify(login.Instance) == instance.Unknown {
			if closest := instance.Closest(login.Instance); closest != "" {
				fmt.Printf(
					"%s %s is not a known instance, did you mean %s?\n",
					icon.Get(icon.Globe),
					style.Fg(color.Red)(login.Instance),
					style.Fg(color.Yellow)(closest),
				)
			}
		}

		var password string
		prompt := survey.Password{Message: fmt.Sprintf("Password for %s on %s:", login.User, login.Instance)}
		handleErr(survey.AskOne(&prompt, &password, survey.WithValidator(survey.Required)))

		handleErr(credential.SetPassword(login.Instance, password))

		viper.Set(key.LoginCredential, args[0])
		switch err := viper.WriteConfig(); err.(type) {
		case viper.ConfigFileNotFoundError:
			handleErr(viper.SafeWriteConfig())
		default:
			handleErr(err)
		}

		fmt.Printf(
			"%s stored credential for %s\n",
			style.Fg(color.Green)(icon.Get(icon.Lock)),
			style.Fg(color.Purple)(login.Instance),
		)
	},
}

func deleteLogin() {
	raw := viper.GetString(key.LoginCredential)
	if raw == "" {
		handleErr(errors.New("no credential is configured"))
	}

	login, err := credential.ParseLogin(raw)
	handleErr(err)

	// the keyring entry may already be gone, that is fine
	_ = credential.DeletePassword(login.Instance)

	viper.Set(key.LoginCredential, "")
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		handleErr(viper.SafeWriteConfig())
	default:
		handleErr(err)
	}

	fmt.Printf(
		"%s forgot credential for %s\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		style.Fg(color.Purple)(login.Instance),
	)
}
