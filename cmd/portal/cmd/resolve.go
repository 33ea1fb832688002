package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/core/service"
	"github.com/bankportal/portal-gateway/internal/navigation"
	"github.com/bankportal/portal-gateway/internal/session"
)

var (
	resolveRoles     string
	resolvePath      string
	resolveAnonymous bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show where a navigation ends for a given set of roles",
	Long: `Run a navigation through the portal's route table without a server.

Example:
  portal resolve --roles CLIENT --path /admin/dashboard
  # final:   /client
  # history: /client

  portal resolve --anonymous --path /`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveRoles, "roles", "", "comma separated roles of the signed-in user (ADMIN, CLIENT)")
	resolveCmd.Flags().StringVar(&resolvePath, "path", "/", "URL to navigate to")
	resolveCmd.Flags().BoolVar(&resolveAnonymous, "anonymous", false, "navigate without a signed-in user")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, _ []string) error {
	var user *domain.User
	if !resolveAnonymous {
		roles, unknown := domain.ParseRoleSet(splitRoles(resolveRoles))
		for _, r := range unknown {
			fmt.Fprintf(cmd.ErrOrStderr(), "ignoring unknown role %q\n", r)
		}
		user = &domain.User{ID: "cli", Email: "cli@localhost", Roles: roles, Enabled: true}
	}

	log := zerolog.New(cmd.ErrOrStderr()).Level(zerolog.WarnLevel)
	table := navigation.DefaultTable(service.NewRoleRedirector(log))
	router := navigation.NewRouter(table, session.NewResolvedStore(user), service.NewGatekeeper(log), log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := router.Navigate(ctx, resolvePath, ports.NavigateOptions{}); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "final:   %s\n", router.CurrentURL())
	fmt.Fprintf(out, "history: %s\n", strings.Join(router.History(), " "))
	return nil
}

func splitRoles(raw string) []string {
	var roles []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, strings.ToUpper(r))
		}
	}
	return roles
}
