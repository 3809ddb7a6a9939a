package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/paydown-dev/paydown/internal/balances"
	"github.com/paydown-dev/paydown/internal/importer"
	"github.com/paydown-dev/paydown/internal/planning"
)

func newImportCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Record balances from exports dropped in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open()
			if err != nil {
				return err
			}
			return a.runImport(cmd.OutOrStdout(), svc, importer.DefaultRegistry(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "paydown", "export format")
	return cmd
}

func (a *app) runImport(out io.Writer, svc *planning.Service, reg *importer.Registry, format string) error {
	files, err := importer.Scan(svc.Root())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, err := fmt.Fprintln(out, "Nothing to import.")
		return err
	}

	total := 0
	for _, file := range files {
		snaps, err := reg.ParseFile(format, file.Path)
		if err != nil {
			return err
		}

		// Resolve and validate every row before recording any of them.
		params := make([]balances.RecordParams, 0, len(snaps))
		for i, s := range snaps {
			acct, err := svc.Accounts().Find(s.AccountID)
			if err != nil {
				return fmt.Errorf("%s row %d: %w", file.Name, i+2, err)
			}
			params = append(params, balances.RecordParams{
				AccountID:       acct.ID,
				AsOf:            s.AsOf,
				Amount:          s.Amount,
				AvailableCredit: s.AvailableCredit,
				Notes:           "imported from " + file.Name,
				EnteredAt:       time.Now(),
			})
		}

		if _, err := svc.Balances().RecordAll(params); err != nil {
			var entryErr *balances.EntryError
			if errors.As(err, &entryErr) {
				return fmt.Errorf("%s row %d: %w", file.Name, entryErr.Index+2, entryErr.Err)
			}
			return fmt.Errorf("%s: %w", file.Name, err)
		}
		if err := importer.MarkProcessed(svc.Root(), file.Name); err != nil {
			return err
		}

		a.log.Info("imported balances", "file", file.Name, "rows", len(params))
		if _, err := fmt.Fprintf(out, "Imported %d balances from %s\n", len(params), file.Name); err != nil {
			return err
		}
		total += len(params)
	}

	msg := fmt.Sprintf("import: %d balances from %d files", total, len(files))
	return a.commit(svc.Root(), svc.Config(), msg)
}
