package commands

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"dumarte_backend/internal/adapters/storage"

	"github.com/spf13/cobra"
)

// images upload <file>: put a project image into the project images bucket.
func imagesCmd() *cobra.Command {
	images := &cobra.Command{
		Use:   "images",
		Short: "Manage project images in object storage",
	}

	var folder string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a project image and print its object key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := storage.NewMinIOService(cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return err
			}
			sniff := make([]byte, 512)
			n, _ := f.Read(sniff)
			contentType := http.DetectContentType(sniff[:n])
			if _, err := f.Seek(0, 0); err != nil {
				return err
			}

			ctx := cmd.Context()
			bucket := cfg.GetMinioBucketProjectImages()
			if err := svc.EnsureBucketExists(ctx, bucket); err != nil {
				return err
			}
			key, err := svc.UploadFile(ctx, bucket, folder, filepath.Base(args[0]), contentType, f, info.Size())
			if err != nil {
				return err
			}
			log.Info("project image uploaded", "bucket", bucket, "key", key, "size", info.Size())

			presigned, err := svc.GenerateDownloadURL(ctx, bucket, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			fmt.Fprintln(cmd.OutOrStdout(), presigned.URL)
			return nil
		},
	}
	upload.Flags().StringVar(&folder, "folder", "proyectos", "object key folder")

	images.AddCommand(upload)
	return images
}
