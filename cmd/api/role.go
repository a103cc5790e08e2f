// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/collabconnect/internal/platform/sec"
)

func newRoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "role <job title> <company>",
		Short: "Print the system role a registration would receive",
		Example: `  collabconnect role "HR Manager" "Talent"
  collabconnect role CEO "Disruptive Talent"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), sec.ResolveRole(args[0], args[1]))
			return err
		},
	}
}
