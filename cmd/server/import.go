package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tourhub/internal/events"
	"tourhub/internal/metrics"
	"tourhub/internal/services"
)

func importMembersCmd(configPath *string) *cobra.Command {
	var groupID, file string
	cmd := &cobra.Command{
		Use:   "import-members",
		Short: "Add members to a group from a name, email, phone, role text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			st, db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			svc := services.NewTravelService(st, events.Nop{}, metrics.New(), cfg.Members.ImportMaxRows)
			res, err := svc.ImportMembers(cmd.Context(), groupID, string(raw))
			if err != nil {
				return err
			}
			for _, s := range res.Skipped {
				logrus.WithFields(logrus.Fields{"line": s.Line, "reason": s.Reason}).Warn("Skipped line.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d members into group %s, skipped %d lines\n",
				len(res.Members), groupID, len(res.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Travel group id")
	cmd.Flags().StringVar(&file, "file", "", "Text file with one member per line")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
