package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pbanos/sapling/dataset"
)

type testCmdConfig struct {
	*treeCmdConfig
	treeInput string
	dataInput string
}

func testCmd(treeConfig *treeCmdConfig) *cobra.Command {
	config := &testCmdConfig{treeCmdConfig: treeConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			md, err := readMetadata(config.logger, config.metadataInput)
			if err != nil {
				fail(2, err)
			}
			t, err := loadTree(config.Context(), config.treeInput)
			if err != nil {
				fail(3, err)
			}
			ds, _, err := readDataset(config.Context(), config.logger, config.dataInput, t.NumFeatures)
			if err != nil {
				fail(4, err)
			}
			if ds.NumFeatures() != t.NumFeatures {
				fail(5, errors.Wrapf(dataset.ErrInvalidInput, "tree expects %d features, testing set samples have %d", t.NumFeatures, ds.NumFeatures()))
			}
			config.Logf("Testing tree against testset with %d samples...", ds.Count())
			cm, err := t.Test(config.Context(), ds)
			if err != nil {
				fail(6, errors.Wrap(err, "testing tree"))
			}
			config.Logf("Done")
			fmt.Fprintf(cmd.OutOrStdout(), "%f success rate\n", cm.Accuracy())
			writeConfusionMatrix(cmd.OutOrStdout(), cm, md)
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input text, CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the tree against (defaults to STDIN, as text)")
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file or redis://host:port/db#name URL from which the tree to test will be read (required)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return errors.New("required tree flag was not set")
	}
	return nil
}
