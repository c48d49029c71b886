package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*setCmdConfig
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, usually to obtain a training set and a testing set`,
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
			seed := config.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			config.Logf("Splitting %d samples with seed %d...", ds.Count(), seed)
			randomizer := rand.New(rand.NewSource(seed))
			var kept, split []int
			for i := 0; i < ds.Count(); i++ {
				if 100*randomizer.Float64() < float64(config.splitProbability) {
					split = append(split, i)
				} else {
					kept = append(kept, i)
				}
			}
			output, err := ds.Select(kept)
			if err != nil {
				fail(5, err)
			}
			splitOutput, err := ds.Select(split)
			if err != nil {
				fail(5, err)
			}
			count, err := writeDataset(config.Context(), config.logger, config.setOutput, names, output)
			if err != nil {
				fail(6, err)
			}
			splitCount, err := writeDataset(config.Context(), config.logger, config.splitOutput, names, splitOutput)
			if err != nil {
				fail(7, err)
			}
			config.Logf("Dumped %d samples to output set and %d to split set", count, splitCount)
		},
	}
	cmd.Flags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a text, CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the split set (required)")
	cmd.Flags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as a percentage (1..100) that a sample goes to the split set instead of the output set")
	cmd.Flags().Int64Var(&(config.seed), "seed", 0, "seed for the random split, making it reproducible (defaults to 0: seed from the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if err := scc.setCmdConfig.Validate(); err != nil {
		return err
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitOutput == scc.setOutput {
		return fmt.Errorf("output and split-output must be different")
	}
	if scc.splitProbability < 1 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability must be between 1 and 100")
	}
	return nil
}
