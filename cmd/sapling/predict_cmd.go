package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/inputsample"
	"github.com/pbanos/sapling/feature"
)

type predictCmdConfig struct {
	*treeCmdConfig
	treeInput string
	sample    string
}

type stdoutFeatureValueRequester struct {
	w io.Writer
}

func predictCmd(treeConfig *treeCmdConfig) *cobra.Command {
	config := &predictCmdConfig{treeCmdConfig: treeConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the class for a sample answering questions",
		Long:  `Use the loaded tree to predict the class for a sample answering a reduced set of questions about its features`,
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
			names := t.Names
			if md != nil {
				names = md.Features
			}
			var s feature.Sample
			if config.sample != "" {
				s, err = parseSample(config.sample, t.NumFeatures)
				if err != nil {
					fail(4, err)
				}
			} else {
				s = inputsample.New(os.Stdin, t.NumFeatures, names, stdoutFeatureValueRequester{cmd.OutOrStdout()})
			}
			class, err := t.Predict(config.Context(), s)
			if err != nil {
				fail(5, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Predicted class is %s\n", md.ClassName(class))
		},
	}
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file or redis://host:port/db#name URL from which the tree to predict with will be read (required)")
	cmd.Flags().StringVarP(&(config.sample), "sample", "s", "", "feature values of the sample separated by commas or spaces, e.g. 1,0,1 (defaults to asking for them on STDIN)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

// parseSample takes feature values separated by commas or whitespace and returns them as a row.
func parseSample(s string, numFeatures int) (dataset.Row, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != numFeatures {
		return nil, errors.Wrapf(dataset.ErrInvalidInput, "sample has %d values, tree expects %d", len(fields), numFeatures)
	}
	row := make(dataset.Row, numFeatures)
	for i, f := range fields {
		switch strings.ToLower(f) {
		case "1", "true", "t", "yes", "y":
			row[i] = true
		case "0", "false", "f", "no", "n":
		default:
			return nil, errors.Wrapf(dataset.ErrInvalidInput, "value %q for feature %d is not a boolean", f, i)
		}
	}
	return row, nil
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f int, name string) error {
	_, err := fmt.Fprintf(sfvr.w, "Please provide the sample's %s:\n(valid values are 1 or y for true and 0 or n for false)\n", name)
	return err
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f int, name string, value string) error {
	_, err := fmt.Fprintf(sfvr.w, "%q is not a valid value for the sample's %s. Please provide 1 or y for true and 0 or n for false.\n", value, name)
	return err
}
