/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kamileo242/EventManager/models"
	"github.com/kamileo242/EventManager/service"
)

func newParticipantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "participants",
		Aliases: []string{"user-events"},
		Short:   "Manage event participation",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List participations",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			var (
				q   service.UserEventQuery
				err error
			)
			if q.UserId, err = optID(cmd, "user"); err != nil {
				return err
			}
			if q.EventId, err = optID(cmd, "event"); err != nil {
				return err
			}
			if q.MinDepositPaid, err = optDecimal(cmd, "min-deposit"); err != nil {
				return err
			}
			if q.MaxDepositPaid, err = optDecimal(cmd, "max-deposit"); err != nil {
				return err
			}
			if q.JoinedFrom, err = optTime(cmd, "joined-from"); err != nil {
				return err
			}
			if q.JoinedTo, err = optTime(cmd, "joined-to"); err != nil {
				return err
			}
			return list(a, cmd, q.Predicate(), a.svc.Participants.Find)
		}),
	}
	f := listCmd.Flags()
	f.String("user", "", "user identifier")
	f.String("event", "", "event identifier")
	f.String("min-deposit", "", "lower bound of the deposit paid")
	f.String("max-deposit", "", "upper bound of the deposit paid")
	f.String("joined-from", "", "earliest join time (RFC 3339)")
	f.String("joined-to", "", "latest join time (RFC 3339)")
	addWhereFlag(listCmd)

	getCmd := &cobra.Command{
		Use:   "get USER EVENT",
		Short: "Show a participation",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			userId, eventId, err := parsePair(args)
			if err != nil {
				return err
			}
			ue, err := a.svc.Participants.Get(cmd.Context(), userId, eventId)
			if err != nil {
				return err
			}
			return a.print(cmd, ue)
		}),
	}

	addCmd := &cobra.Command{
		Use:   "add USER EVENT",
		Short: "Sign a user up for an event",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			userId, eventId, err := parsePair(args)
			if err != nil {
				return err
			}
			deposit, err := optDecimal(cmd, "deposit")
			if err != nil {
				return err
			}
			ue := &models.UserEvent{UserId: userId, EventId: eventId}
			if deposit != nil {
				ue.DepositPaid = *deposit
			}
			if err := a.svc.Participants.Add(cmd.Context(), ue); err != nil {
				return err
			}
			return a.print(cmd, ue)
		}),
	}
	addCmd.Flags().String("deposit", "", "deposit paid on sign-up")

	depositCmd := &cobra.Command{
		Use:   "deposit USER EVENT AMOUNT",
		Short: "Record a further deposit payment",
		Args:  cobra.ExactArgs(3),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			userId, eventId, err := parsePair(args)
			if err != nil {
				return err
			}
			amount, err := parseAmount("amount", args[2])
			if err != nil {
				return err
			}
			if err := a.svc.Participants.UpdateDepositPaid(cmd.Context(), userId, eventId, amount); err != nil {
				return err
			}
			ue, err := a.svc.Participants.Get(cmd.Context(), userId, eventId)
			if err != nil {
				return err
			}
			return a.print(cmd, ue)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete USER EVENT",
		Short: "Remove a user from an event",
		Args:  cobra.ExactArgs(2),
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			userId, eventId, err := parsePair(args)
			if err != nil {
				return err
			}
			return a.svc.Participants.Delete(cmd.Context(), userId, eventId)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, addCmd, depositCmd, deleteCmd)
	return cmd
}

func parsePair(args []string) (userId, eventId uuid.UUID, err error) {
	if userId, err = parseID("user", args[0]); err != nil {
		return
	}
	eventId, err = parseID("event", args[1])
	return
}
