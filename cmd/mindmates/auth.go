package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/api"
)

func newLoginCommand(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email-or-username>",
		Short: "Sign in and store the session locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if password == "" {
				p, err := a.readLine(cmd, "Password: ")
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}

			resp, err := a.api.Users.Login(ctx, args[0], password)
			if err != nil {
				return a.fail(ctx, api.OpLogin, err)
			}
			if resp.ID == "" {
				if resp.Message != "" {
					return errors.New(resp.Message)
				}
				return errors.New("login failed: unexpected response from server")
			}
			a.printf(cmd, "logged in as %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if req.Password == "" {
				p, err := a.readLine(cmd, "Password: ")
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				req.Password = p
			}

			user, err := a.api.Users.Register(ctx, req)
			if err != nil {
				return a.fail(ctx, api.OpRegister, err)
			}
			if a.asJSON {
				return a.printJSON(cmd, user)
			}
			a.printf(cmd, "registered %s, check your email to activate the account\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "Username")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "Short bio")
	cmd.Flags().StringVar(&req.ProfilePicURL, "profile-pic-url", "", "Profile picture URL")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Users.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf(cmd, "logged out\n")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.sess.Identity(ctx)
			if err != nil {
				return a.fail(ctx, api.OpDashboard, err)
			}
			if a.asJSON {
				return a.printJSON(cmd, id)
			}
			a.printf(cmd, "%s (%s)\n", id.Username, id.UserID)
			return nil
		},
	}
}
