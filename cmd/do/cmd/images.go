package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/config"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/service"
)

type catalogEntry struct {
	ImageURL   string   `json:"image_url"`
	Categories []string `json:"categories"`
}

func ImagesCmd() *cobra.Command {
	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "Manage the stock image catalog",
	}

	var dryRun bool
	importCmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import catalog images from a JSON array of {image_url, categories}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readCatalog(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Printf("%d images would be imported\n", len(entries))
				return nil
			}

			return withDB(func(_ *config.Config, conn *sqlx.DB) error {
				return importCatalog(service.NewImageService(repository.NewImageRepository(conn), clock.System()), entries)
			})
		},
	}
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing")

	imagesCmd.AddCommand(importCmd)
	return imagesCmd
}

func readCatalog(path string) ([]catalogEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []catalogEntry
	err = json.Unmarshal(raw, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, e := range entries {
		if e.ImageURL == "" || len(e.Categories) != service.CategoryLevels {
			return nil, fmt.Errorf("entry %d: image_url and %d categories are required", i, service.CategoryLevels)
		}
	}
	return entries, nil
}

func importCatalog(images *service.ImageService, entries []catalogEntry) error {
	for i, e := range entries {
		_, err := images.Add(e.ImageURL, e.Categories)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	fmt.Printf("imported %d images\n", len(entries))
	return nil
}
