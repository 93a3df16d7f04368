/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kamileo242/EventManager/predicate"
)

func addWhereFlag(cmd *cobra.Command) {
	cmd.Flags().String("where", "", `filter expression, e.g. 'LastName == "Kowalski" && Name startsWith "A"'`)
}

// list prints the entities matching query and the --where expression.
func list[M any](a *app, cmd *cobra.Command, query predicate.Predicate[M], find func(context.Context, predicate.Predicate[M]) ([]M, error)) error {
	p := query
	if where, _ := cmd.Flags().GetString("where"); where != "" {
		w, err := predicate.Parse[M](where)
		if err != nil {
			return err
		}
		p = predicate.New[M](query.Param.Name, predicate.And(query.Body, w.Body))
	}
	rows, err := find(cmd.Context(), p)
	if err != nil {
		return err
	}
	return a.print(cmd, rows)
}
