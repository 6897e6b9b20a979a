// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Nursedemic CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nursedemic",
		Short: "Nursedemic - nursing education portal backend",
		Long: `Nursedemic serves the portal's form-processing API: account
registration, login with server-side sessions, and the contact form.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}
