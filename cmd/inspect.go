package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/simforge/sim/model"
	"github.com/inference-sim/simforge/sim/repository"
)

var (
	inspectStoreDir  string
	inspectElementID string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the element payloads held in an element store",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(inspectStoreDir, inspectElementID, os.Stdout); err != nil {
			logrus.Fatalf("Inspect failed: %v", err)
		}
	},
}

type recordView struct {
	ID      string             `yaml:"id"`
	Kind    model.Kind         `yaml:"kind"`
	Payload repository.Payload `yaml:"payload"`
}

func runInspect(storeDir, elementID string, w io.Writer) error {
	if storeDir == "" {
		return fmt.Errorf("an element store directory is required")
	}
	repo, closeRepo, err := openRepository(storeDir)
	if err != nil {
		return err
	}
	defer closeRepo()

	records, err := repo.List()
	if err != nil {
		return err
	}
	var views []recordView
	for _, r := range records {
		if elementID != "" && r.ID != elementID {
			continue
		}
		views = append(views, recordView{ID: r.ID, Kind: r.Kind, Payload: r.Payload})
	}
	if elementID != "" && len(views) == 0 {
		return fmt.Errorf("element %q: %w", elementID, repository.ErrNotFound)
	}
	return writeYAML(w, views)
}

func init() {
	inspectCmd.Flags().StringVar(&inspectStoreDir, "store", "", "Badger element store directory")
	inspectCmd.Flags().StringVar(&inspectElementID, "id", "", "Show only this element")
	_ = inspectCmd.MarkFlagRequired("store")

	rootCmd.AddCommand(inspectCmd)
}
