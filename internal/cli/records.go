package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookyear/internal/backend"
	"bookyear/internal/core"
	"bookyear/internal/log"
	"bookyear/internal/records"
)

func (a *app) importCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON or YAML snapshot into the SQLite store",
		Long: `Validate a reading-year snapshot and store it in the SQLite database named by
SQLITE_DB_PATH. An existing snapshot for the same year is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.cfg.DataBackend != string(backend.SQLiteBackend) {
				return fmt.Errorf("import requires DATA_BACKEND=%s, got %q", backend.SQLiteBackend, a.cfg.DataBackend)
			}

			y, err := readSnapshot(file)
			if err != nil {
				return err
			}

			res, err := OpenStore(ctx, a.logger, a.cfg)
			if err != nil {
				return err
			}
			defer res.Close()

			if err := res.Store.SaveYear(ctx, y); err != nil {
				return fmt.Errorf("import %s: %w", file, err)
			}

			a.logger.InfoContext(ctx, "Snapshot imported",
				log.FieldOperation, log.OpImport,
				log.FieldPath, file,
				log.FieldYear, y.Year,
				log.FieldCount, len(y.Books))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d book(s) for %d\n", len(y.Books), y.Year)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "snapshot to import (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	var (
		format  string
		outFile string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the reading-year snapshot",
		Long:  `Write the configured year from the record store as JSON or YAML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := outputFormat(format, outFile)
			if err != nil {
				return err
			}
			y, err := a.loadYear(cmd.Context())
			if err != nil {
				return err
			}
			return writeSnapshot(cmd, y, outFile, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from --out extension, else json)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func readSnapshot(path string) (core.ReadingYear, error) {
	if path == "" {
		return core.ReadingYear{}, errors.New("no snapshot file given")
	}
	f, err := records.FormatFromPath(path)
	if err != nil {
		return core.ReadingYear{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return core.ReadingYear{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	y, err := records.Decode(file, f)
	if err != nil {
		return core.ReadingYear{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return y, nil
}

// writeSnapshot encodes y to path, or to the command output when path is empty.
func writeSnapshot(cmd *cobra.Command, y core.ReadingYear, path string, f records.Format) error {
	var buf bytes.Buffer
	if err := records.Encode(&buf, y, f); err != nil {
		return err
	}
	if path == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s snapshot to %s\n", f, path)
	return nil
}
