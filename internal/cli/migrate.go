package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the record store",
		Long: `Apply pending schema migrations to the SQLite record store configured in
database.path (or DOCFLOW_DB_PATH). The reference invoice INV-2025-000 is
seeded on first run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			data := map[string]int{"applied": s.db.Applied}
			return rootOpts.formatter(cmd).Success(data, fmt.Sprintf("Applied %d migration(s)\n", s.db.Applied))
		},
	}
}
