package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/portfolio/internal/backup"
	"github.com/2beens/portfolio/internal/uploads"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy uploads and a content export to a google drive folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		credsPath, _ := cmd.Flags().GetString("gd-creds")
		shareWith, _ := cmd.Flags().GetString("share-with")
		folder, _ := cmd.Flags().GetString("folder")

		credsJson, err := os.ReadFile(credsPath)
		if err != nil {
			return fmt.Errorf("read google drive credentials: %w", err)
		}

		ctx := cmd.Context()
		driveClient, err := backup.NewDriveClient(ctx, credsJson, shareWith)
		if err != nil {
			return err
		}

		storage, err := uploads.NewDiskStorage(cfg.UploadsPath)
		if err != nil {
			return err
		}

		s, err := initServices(ctx)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		log.Infof("starting backup to drive folder [%s] ...", folder)
		result, err := backup.NewService(driveClient, folder, storage, s.posts, s.projects).Run(ctx)
		if err != nil {
			return fmt.Errorf("backup: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "uploads copied: %d, already present: %d, content export: %s\n",
			result.UploadsCopied, result.UploadsSkipped, result.ExportName)
		return nil
	},
}

func init() {
	backupCmd.Flags().String("gd-creds", "", "google drive service account credentials json file")
	backupCmd.Flags().String("share-with", "", "email to share the backup files with")
	backupCmd.Flags().String("folder", backup.DefaultFolderName, "name of the drive backup folder")
	_ = backupCmd.MarkFlagRequired("gd-creds")
}
