package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/sync"
	"github.com/xelth-com/storesync/internal/wire"
)

// seedDevice is the device id recorded in the sync history for seeded batches
const seedDevice = "storectl"

// SeedOptions describes the first store and its administrator
type SeedOptions struct {
	StoreID       string
	StoreName     string
	AdminID       string
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a store and its administrator through the push path",
		Long: `Create a store and its administrator by pushing them as one batch,
exactly as a terminal would. Running it again updates both records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.StoreID == "" || opts.AdminEmail == "" {
				return fmt.Errorf("--store-id and --admin-email are required")
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			cat, err := catalog.NewRetail()
			if err != nil {
				return err
			}
			svc, err := sync.NewService(db.DB, cat, sync.Options{Audit: true})
			if err != nil {
				return err
			}

			result, err := svc.Push(context.Background(), sync.PushRequest{
				DeviceID: seedDevice,
				Caller:   sync.Principal{StoreID: opts.StoreID, Admin: true},
				Batch:    opts.batch(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded store %v and user %v\n", result[catalog.TypeStores], result[catalog.TypeUsers])
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.StoreID, "store-id", "", "store identity")
	cmd.Flags().StringVar(&opts.StoreName, "store-name", "Main store", "store name")
	cmd.Flags().StringVar(&opts.AdminID, "admin-id", "", "administrator identity (defaults to admin-<store-id>)")
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "", "administrator login email")
	cmd.Flags().StringVar(&opts.AdminName, "admin-name", "Store Admin", "administrator display name")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "", "administrator password (placeholder when empty)")
	return cmd
}

func (o *SeedOptions) batch() wire.Batch {
	adminID := o.AdminID
	if adminID == "" {
		adminID = "admin-" + o.StoreID
	}

	admin := wire.Row{
		"id":       wire.String(adminID),
		"email":    wire.String(o.AdminEmail),
		"name":     wire.String(o.AdminName),
		"role":     wire.String("admin"),
		"store_id": wire.String(o.StoreID),
	}
	if o.AdminPassword != "" {
		admin["password"] = wire.String(o.AdminPassword)
	}

	return wire.Batch{
		catalog.TypeStores: {{
			"id":   wire.String(o.StoreID),
			"name": wire.String(o.StoreName),
		}},
		catalog.TypeUsers: {admin},
	}
}
