package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbanos/sapling/tree"
	jsontree "github.com/pbanos/sapling/tree/json"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
	format        string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Manage decision trees",
		Long:  `Manage decision trees and use them to predict classes for samples`,
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
			if md != nil {
				t.Names = md.Features
			}
			s := t.Stats()
			config.Logf("Tree with %d nodes, %d leaves and depth %d", s.Nodes, s.Leaves, s.Depth)
			out := cmd.OutOrStdout()
			switch config.format {
			case "plain":
				err = tree.Print(out, t)
			case "pretty":
				_, err = fmt.Fprint(out, t)
			case "json":
				err = jsontree.WriteJSONTree(config.Context(), t, out)
			}
			if err != nil {
				fail(4, err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata naming the features and classes of the samples")
	cmd.AddCommand(growCmd(config), testCmd(config), predictCmd(config))
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file or redis://host:port/db#name URL from which the tree to show will be read (required)")
	cmd.Flags().StringVarP(&(config.format), "format", "f", "pretty", "format to show the tree in: plain, pretty or json")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	switch tcc.format {
	case "plain", "pretty", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q, use plain, pretty or json", tcc.format)
}
