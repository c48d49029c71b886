package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/tree"
)

type growCmdConfig struct {
	*treeCmdConfig
	dataInput     string
	output        string
	workers       int
	metricsOutput string
}

func growCmd(treeConfig *treeCmdConfig) *cobra.Command {
	config := &growCmdConfig{treeCmdConfig: treeConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a decision tree from a set of labeled samples by recursive entropy-based splitting.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			md, err := readMetadata(config.logger, config.metadataInput)
			if err != nil {
				fail(2, err)
			}
			ds, names, err := readDataset(config.Context(), config.logger, config.dataInput, numFeatures(md))
			if err != nil {
				fail(3, err)
			}
			names, err = featureNames(md, names, ds)
			if err != nil {
				fail(4, err)
			}
			config.Logf("Growing tree from a set with %d samples and %d features...", ds.Count(), ds.NumFeatures())
			var t *tree.Tree
			if config.workers == 0 {
				t, err = sapling.Build(ds)
			} else {
				t, err = sapling.Grow(config.Context(), ds, config.workers)
			}
			if err != nil {
				fail(5, fmt.Errorf("growing the tree: %w", err))
			}
			t.Names = names
			s := t.Stats()
			config.Logf("Done: %d nodes, %d leaves, depth %d", s.Nodes, s.Leaves, s.Depth)
			err = saveTree(config.Context(), config.output, t)
			if err != nil {
				fail(6, err)
			}
			if config.metricsOutput != "" {
				err = prometheus.WriteToTextfile(config.metricsOutput, prometheus.DefaultGatherer)
				if err != nil {
					fail(7, err)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input text, CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to grow the tree from (defaults to STDIN, as text)")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file to write the tree to in JSON, or redis://host:port/db#name URL to store it at (defaults to STDOUT)")
	cmd.Flags().IntVarP(&(config.workers), "workers", "w", 0, "number of workers growing the tree concurrently (defaults to 0: grow it sequentially)")
	cmd.Flags().StringVar(&(config.metricsOutput), "metrics-output", "", "path to a file to write growth metrics to in the Prometheus text format")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.workers < 0 {
		return fmt.Errorf("workers flag must not be negative")
	}
	return nil
}
