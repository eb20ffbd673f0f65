package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"herbal-site/config"
	"herbal-site/services"
	"herbal-site/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	logging    *zap.Logger
	cfg        *config.Config
	outputPath string
	confirmed  bool
)

var rootCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, archive and restore the site content",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("fehler beim Laden der Konfiguration: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup file of the database content",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Upload a compressed backup to object storage and rotate old ones",
	Long: `Archive takes a snapshot of settings, content and slides, uploads it gzipped
to BACKUP_S3_BUCKET (or S3_BUCKET) under BACKUP_PREFIX and keeps only the newest
KEEP_BACKUPS archives.`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all database content with a backup file",
	Long:  `Restore replaces settings, content and slides wholesale. It requires --yes.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	exportCmd.Flags().StringVarP(&outputPath, "out", "o", "", "output file (default herbal-backup-<timestamp>.json)")
	restoreCmd.Flags().BoolVar(&confirmed, "yes", false, "confirm that all existing content is replaced")
	rootCmd.AddCommand(exportCmd, archiveCmd, restoreCmd)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run führt die CLI aus und liefert den Exit-Code; der Logger wird vorher geleert.
func run(args []string) int {
	var err error
	logging, err = zap.NewProduction()
	if err != nil {
		log.Printf("can't initialize zap logger: %v", err)
		return 1
	}
	defer logging.Sync()

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		logging.Error("Befehl fehlgeschlagen", zap.Error(err))
		return 1
	}
	return 0
}

func openStore() (*storage.Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("fehler beim Verbinden mit der Datenbank: %w", err)
	}
	return storage.NewStore(db, logging), nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	data, err := store.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("fehler beim Lesen des Bestands: %w", err)
	}

	now := time.Now()
	if outputPath == "" {
		outputPath = services.BackupFilename(now)
	}
	payload, err := json.MarshalIndent(services.NewBackup(data, now), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return err
	}
	logging.Info("Backup geschrieben", zap.String("file", outputPath),
		zap.Int("content", len(data.Content)), zap.Int("slides", len(data.Slides)))
	return nil
}

func runArchive(cmd *cobra.Command, _ []string) error {
	if !cfg.StorageEnabled() {
		return errors.New("S3_URL, S3_KEY und S3_SECRET müssen gesetzt sein")
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	data, err := store.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("fehler beim Lesen des Bestands: %w", err)
	}

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		return fmt.Errorf("fehler beim Erstellen des S3-Clients: %w", err)
	}
	archive := storage.NewArchive(s3Client, cfg.BackupTargetBucket(), cfg.BackupPrefix, cfg.KeepBackups, logging)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()
	key, err := services.ArchiveSnapshot(ctx, archive, data, time.Now())
	if err != nil {
		return fmt.Errorf("fehler beim Hochladen nach S3: %w", err)
	}
	logging.Info("Backup erfolgreich hochgeladen",
		zap.String("bucket", cfg.BackupTargetBucket()), zap.String("key", key))
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	data, err := services.ParseBackup(raw)
	if err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("%w: run again with --yes", services.ErrConfirmationRequired)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.AutoMigrate(); err != nil {
		return fmt.Errorf("fehler bei der Migration: %w", err)
	}
	if err := store.ReplaceAll(cmd.Context(), data); err != nil {
		return errors.New(services.DescribePersistError(err))
	}
	logging.Info("Backup wiederhergestellt", zap.String("file", args[0]),
		zap.Int("content", len(data.Content)), zap.Int("slides", len(data.Slides)))
	return nil
}
