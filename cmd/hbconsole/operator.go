package main

import (
	"fmt"
	"os"

	"haber_bosch_console/internal/config"
	"haber_bosch_console/internal/logger"
	"haber_bosch_console/internal/repository"
	"haber_bosch_console/internal/service"

	"github.com/spf13/cobra"
)

const operatorPasswordEnv = "HBC_OPERATOR_PASSWORD"

func newOperatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage console operators",
	}
	cmd.AddCommand(newOperatorAddCmd())
	return cmd
}

func newOperatorAddCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add an operator who can sign in when auth is enabled",
		Long: `Adds an operator account to the console database.

The password comes from --password or, when that is empty, from
` + operatorPasswordEnv + `.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(operatorPasswordEnv)
			}
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			log := logger.Configure(cfg.Log.Level, cfg.Log.Format)
			db, err := openDB(cfg.DB.Path, log)
			if err != nil {
				return err
			}
			defer db.Close()

			repos := repository.NewRepository(db)
			auth := service.NewAuthService(repos.OperatorRepo, service.AuthSettings{})
			id, err := auth.SignUp(cmd.Context(), args[0], password)
			if err != nil {
				return fmt.Errorf("add operator: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operator %s added (id %d)\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Operator password")
	return cmd
}
