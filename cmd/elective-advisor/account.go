// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/elective-advisor/internal/account"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Register, log in and log out",
	Long: `Account manages student accounts. A successful login stores a signed
session token in session.file; later commands act on behalf of that user
until logout or until the token expires.`,
}

var accountRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a student account",
	Long: `Register creates an account. When --password is omitted the password is
read from the first line of stdin.`,
	RunE: runAccountRegister,
}

func runAccountRegister(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, err := passwordFlag(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := &account.Service{Store: store}
	user, err := svc.Register(context.Background(), name, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s>\n", user.FullName, user.Email)
	return nil
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save a session",
	Long: `Login checks your email and password and saves a signed session token
in session.file. The token is signed with session.signing_key, or with the
session-signing-key secret; when neither exists a random key is generated
and written to the secrets directory on first login.`,
	RunE: runAccountLogin,
}

func runAccountLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, err := passwordFlag(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := &account.Service{Store: store}
	sess, err := svc.Authenticate(context.Background(), email, password)
	if err != nil {
		return err
	}

	if err := ensureSigningKey(&cfg); err != nil {
		return err
	}
	tokens := sessionTokens(cfg)
	token, err := tokens.Issue(sess)
	if err != nil {
		return err
	}
	if err := account.SaveSession(cfg.Session.File, token); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s.\n", sess.FullName)
	return nil
}

var accountLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := account.ClearSession(cfg.Session.File); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var accountWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess, err := currentSession(cfg)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeStructured(cmd.OutOrStdout(), sess, "json")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s <%s>\n", sess.FullName, sess.Email)
		if sess.StudentID != "" {
			fmt.Fprintf(w, "student id: %s\n", sess.StudentID)
		}
		if sess.GPA != nil {
			fmt.Fprintf(w, "gpa:        %.2f\n", *sess.GPA)
		}
		fmt.Fprintf(w, "expires:    %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

// passwordFlag returns --password or, when it is empty, the first line of stdin.
func passwordFlag(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}
	return readPassword(cmd.InOrStdin())
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password required: pass --password or pipe it on stdin")
	}
	return line, nil
}

func init() {
	accountRegisterCmd.Flags().String("name", "", "full name")
	accountRegisterCmd.Flags().String("email", "", "email address")
	accountRegisterCmd.Flags().String("password", "", "password (read from stdin when empty)")
	accountRegisterCmd.MarkFlagRequired("name")
	accountRegisterCmd.MarkFlagRequired("email")

	accountLoginCmd.Flags().String("email", "", "email address")
	accountLoginCmd.Flags().String("password", "", "password (read from stdin when empty)")
	accountLoginCmd.MarkFlagRequired("email")

	accountWhoamiCmd.Flags().Bool("json", false, "output the session as JSON")

	accountCmd.AddCommand(accountRegisterCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountLogoutCmd)
	accountCmd.AddCommand(accountWhoamiCmd)
	rootCmd.AddCommand(accountCmd)
}
