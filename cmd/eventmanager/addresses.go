/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/service"
)

func newAddressesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Manage addresses",
	}

	var q service.AddressQuery
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List addresses",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			return list(a, cmd, q.Predicate(), a.svc.Addresses.Find)
		}),
	}
	listCmd.Flags().StringVar(&q.City, "city", "", "city contains")
	listCmd.Flags().StringVar(&q.Street, "street", "", "street contains")
	listCmd.Flags().StringVar(&q.HouseNumber, "house-number", "", "house number contains")
	addWhereFlag(listCmd)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show an address",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			addr, err := a.svc.Addresses.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(cmd, addr)
		}),
	}

	var addr models.Address
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an address",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Addresses.Add(cmd.Context(), &addr); err != nil {
				return err
			}
			return a.print(cmd, addr)
		}),
	}
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace an address",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Addresses.Update(cmd.Context(), id, &addr); err != nil {
				return err
			}
			return a.print(cmd, addr)
		}),
	}
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&addr.City, "city", "", "city")
		c.Flags().StringVar(&addr.Street, "street", "", "street")
		c.Flags().StringVar(&addr.HouseNumber, "house-number", "", "house number")
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an address",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			return a.svc.Addresses.Delete(cmd.Context(), id)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}
