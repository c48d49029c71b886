package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	setOutput     string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage datasets",
		Long:  `Manage datasets: convert them between text, CSV, SQLite3, PostgreSQL and MongoDB`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			md, err := readMetadata(config.logger, config.metadataInput)
			if err != nil {
				fail(2, err)
			}
			ds, names, err := readDataset(config.Context(), config.logger, config.setInput, numFeatures(md))
			if err != nil {
				fail(3, err)
			}
			names, err = featureNames(md, names, ds)
			if err != nil {
				fail(4, err)
			}
			count, err := writeDataset(config.Context(), config.logger, config.setOutput, names, ds)
			if err != nil {
				fail(5, err)
			}
			config.Logf("Dumped %d samples", count)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input text, CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data (defaults to STDIN, as text)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata naming the features of the samples")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a text, CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the output set (defaults to STDOUT, as text)")
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.setInput != "" && scc.setInput == scc.setOutput {
		return fmt.Errorf("input and output must be different")
	}
	return nil
}

/*
writeDataset takes a context, the location to write a dataset to and
the names of its features and dumps every sample of ds there. It
returns the number of samples written.
*/
func writeDataset(ctx context.Context, l logger, location string, names feature.Names, ds *dataset.Dataset) (count int, err error) {
	w, closer, err := createWriter(ctx, l, location, names)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Append(err, closer())
	}()
	err = dataset.WriteAll(ctx, w, ds)
	return w.Count(), err
}
