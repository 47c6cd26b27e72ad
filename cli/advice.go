package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gtdagent/model"
	"gtdagent/services"
)

func adviceCmd() *cobra.Command {
	var currentContext string

	cmd := &cobra.Command{
		Use:       "advice [what-to-do-now|scheduling]",
		Short:     "Ask the assistant about your lists",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"what-to-do-now", "scheduling"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			advisor := services.NewAdvisor(services.NewChatProvider(cfg.AI(), nil))

			var advice string
			switch args[0] {
			case "scheduling":
				pending := []model.Task{}
				for _, t := range s.Tasks() {
					if t.Status != model.StatusCompleted && t.Status != model.StatusReference {
						pending = append(pending, t)
					}
				}
				advice, err = advisor.SchedulingAdvice(cmd.Context(), pending, time.Now())
			default:
				advice, err = advisor.WhatToDoNowAdvice(cmd.Context(), s.Tasks(), s.Contexts(), currentContext)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), advice)
			return nil
		},
	}

	cmd.Flags().StringVarP(&currentContext, "context", "c", "", "where you are, e.g. @home")
	return cmd
}
