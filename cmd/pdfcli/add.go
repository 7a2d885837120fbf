package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdfcatalog/internal/client"
	"pdfcatalog/internal/config"
	"pdfcatalog/internal/database"
	"pdfcatalog/internal/database/migration"
	"pdfcatalog/internal/logging"
	"pdfcatalog/internal/publish"
	"pdfcatalog/internal/repository/postgres"
	"pdfcatalog/internal/service"
	"pdfcatalog/internal/storage"
)

func (a *cli) uploadCmd() *cobra.Command {
	var title, subject, year string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Send a PDF to the upload helper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := a.uploadClient()
			if err != nil {
				return err
			}
			res, err := c.Upload(cmd.Context(), client.UploadInput{
				Title:    title,
				Subject:  subject,
				Year:     year,
				FileName: filepath.Base(args[0]),
				Data:     data,
			})
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}
			printResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "PDF title")
	cmd.Flags().StringVar(&subject, "subject", "", "subject")
	cmd.Flags().StringVar(&year, "year", "", "year level")
	return cmd
}

// addCmd puts the file into the object store and records it directly in the
// database, using the server's environment configuration.
func (a *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <file> <title> <subject> <year>",
		Short:   "Store a PDF in the bucket and insert it into the catalog",
		Example: `  pdfcli add myfile.pdf "My PDF Title" "Mathematics" "Year 7"`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()
			logger := logging.New(cmd.ErrOrStderr(), cfg.Location()).With("pdfcli")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			store, err := storage.NewMinIO(ctx, cfg.MinIO)
			if err != nil {
				return fmt.Errorf("object storage: %w", err)
			}
			db, err := database.NewPostgres(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer db.Close()
			if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
				return err
			}

			pub := publish.NewObjectPublisher(store, "", cfg.Upload.PublicBaseURL)
			svc := service.NewRemoteUploadService(pub, postgres.NewDocumentPostgres(db), logger)
			res, err := svc.Upload(ctx, service.UploadRequest{
				Title:       args[1],
				Subject:     args[2],
				Year:        args[3],
				FileName:    filepath.Base(args[0]),
				ContentType: "application/pdf",
				Data:        data,
			})
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, res *service.UploadResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "PDF added to catalog")
	fmt.Fprintf(out, "  ID: %s\n  Title: %s\n  Subject: %s\n  Year: %s\n  URL: %s\n",
		res.ID, res.Title, res.Subject, res.Year, res.FileURL)
}
