/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/service"
)

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage events",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			q, err := readEventQuery(cmd)
			if err != nil {
				return err
			}
			return list(a, cmd, q.Predicate(), a.svc.Events.Find)
		}),
	}
	f := listCmd.Flags()
	f.String("name", "", "name contains")
	f.String("description", "", "description contains")
	f.String("start-from", "", "earliest start date (RFC 3339)")
	f.String("start-to", "", "latest start date (RFC 3339)")
	f.String("end-from", "", "earliest end date (RFC 3339)")
	f.String("end-to", "", "latest end date (RFC 3339)")
	f.String("address", "", "address identifier")
	f.Int("min-participants", 0, "lower bound of the participant limit")
	f.Int("max-participants", 0, "upper bound of the participant limit")
	f.String("min-cost", "", "lower bound of the cost")
	f.String("max-cost", "", "upper bound of the cost")
	addWhereFlag(listCmd)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show an event",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			e, err := a.svc.Events.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(cmd, e)
		}),
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			e, err := readEvent(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.Events.Add(cmd.Context(), e); err != nil {
				return err
			}
			return a.print(cmd, e)
		}),
	}
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace an event",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			e, err := readEvent(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.Events.Update(cmd.Context(), id, e); err != nil {
				return err
			}
			return a.print(cmd, e)
		}),
	}
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		f := c.Flags()
		f.String("name", "", "event name")
		f.String("description", "", "event description")
		f.String("start", "", "start date (RFC 3339)")
		f.String("end", "", "end date (RFC 3339)")
		f.String("address", "", "address identifier")
		f.Int("max-participants", 0, "participant limit")
		f.String("cost", "", "participation cost")
	}

	setAddressCmd := &cobra.Command{
		Use:   "set-address EVENT ADDRESS",
		Short: "Assign an address to an event",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			eventId, err := parseID("event", args[0])
			if err != nil {
				return err
			}
			addressId, err := parseID("address", args[1])
			if err != nil {
				return err
			}
			if err := a.svc.Events.AddAddress(cmd.Context(), eventId, addressId); err != nil {
				return err
			}
			e, err := a.svc.Events.GetByID(cmd.Context(), eventId)
			if err != nil {
				return err
			}
			return a.print(cmd, e)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			return a.svc.Events.Delete(cmd.Context(), id)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, addCmd, updateCmd, setAddressCmd, deleteCmd)
	return cmd
}

func readEvent(cmd *cobra.Command) (*models.Event, error) {
	f := cmd.Flags()
	e := &models.Event{}
	e.Name, _ = f.GetString("name")
	e.Description, _ = f.GetString("description")

	var err error
	if e.StartDate, err = optTime(cmd, "start"); err != nil {
		return nil, err
	}
	if e.EndDate, err = optTime(cmd, "end"); err != nil {
		return nil, err
	}
	if e.AddressId, err = optID(cmd, "address"); err != nil {
		return nil, err
	}
	if e.MaxParticipants, err = optInt(cmd, "max-participants"); err != nil {
		return nil, err
	}
	if e.Cost, err = optDecimal(cmd, "cost"); err != nil {
		return nil, err
	}
	return e, nil
}

func readEventQuery(cmd *cobra.Command) (service.EventQuery, error) {
	f := cmd.Flags()
	var q service.EventQuery
	q.Name, _ = f.GetString("name")
	q.Description, _ = f.GetString("description")

	var err error
	if q.StartDateFrom, err = optTime(cmd, "start-from"); err != nil {
		return q, err
	}
	if q.StartDateTo, err = optTime(cmd, "start-to"); err != nil {
		return q, err
	}
	if q.EndDateFrom, err = optTime(cmd, "end-from"); err != nil {
		return q, err
	}
	if q.EndDateTo, err = optTime(cmd, "end-to"); err != nil {
		return q, err
	}
	if q.AddressId, err = optID(cmd, "address"); err != nil {
		return q, err
	}
	if q.MinParticipants, err = optInt(cmd, "min-participants"); err != nil {
		return q, err
	}
	if q.MaxParticipants, err = optInt(cmd, "max-participants"); err != nil {
		return q, err
	}
	if q.MinCost, err = optDecimal(cmd, "min-cost"); err != nil {
		return q, err
	}
	if q.MaxCost, err = optDecimal(cmd, "max-cost"); err != nil {
		return q, err
	}
	return q, nil
}
