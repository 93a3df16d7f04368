/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/service"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	var q service.UserQuery
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			return list(a, cmd, q.Predicate(), a.svc.Users.Find)
		}),
	}
	listCmd.Flags().StringVar(&q.Name, "name", "", "name contains")
	listCmd.Flags().StringVar(&q.LastName, "last-name", "", "last name contains")
	addWhereFlag(listCmd)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			u, err := a.svc.Users.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(cmd, u)
		}),
	}

	var u models.User
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Users.Add(cmd.Context(), &u); err != nil {
				return err
			}
			return a.print(cmd, u)
		}),
	}
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Users.Update(cmd.Context(), id, &u); err != nil {
				return err
			}
			return a.print(cmd, u)
		}),
	}
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&u.Name, "name", "", "first name")
		c.Flags().StringVar(&u.LastName, "last-name", "", "last name")
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			return a.svc.Users.Delete(cmd.Context(), id)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}
