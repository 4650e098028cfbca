package cli

import (
	"github.com/spf13/cobra"

	"university/backend/models"
	"university/backend/services"
)

type seedOptions struct {
	email    string
	password string
	name     string
}

func newSeedCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create empty collections and an initial admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, svc, err := bootstrap()
			if err != nil {
				return err
			}

			hasAdmin, err := svc.HasAdmin()
			if err != nil {
				return err
			}
			if hasAdmin {
				logger.Info("admin account already present, nothing to seed")
				return nil
			}

			admin, err := svc.CreateUser(services.NewUser{
				Email:    opts.email,
				Password: opts.password,
				Name:     opts.name,
				Role:     models.RoleAdmin,
			})
			if err != nil {
				return err
			}
			logger.Info("admin account created", "id", admin.ID, "email", admin.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.email, "admin-email", "admin@university.edu", "email of the initial admin")
	cmd.Flags().StringVar(&opts.password, "admin-password", "admin123", "password of the initial admin")
	cmd.Flags().StringVar(&opts.name, "admin-name", "System Administrator", "display name of the initial admin")
	return cmd
}
