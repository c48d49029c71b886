package main

import (
	"github.com/pkg/errors"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
)

// readMetadata returns the metadata in the file at path, or nil if path is empty.
func readMetadata(l logger, path string) (*yaml.Metadata, error) {
	if path == "" {
		return nil, nil
	}
	l.Logf("Reading features from metadata at %s...", path)
	return yaml.ReadMetadataFromFile(path)
}

// numFeatures returns the number of features declared in md, or -1 if there is no metadata.
func numFeatures(md *yaml.Metadata) int {
	if md == nil {
		return -1
	}
	return len(md.Features)
}

/*
featureNames returns the names for the features of ds: those in md if
given, those read along with the dataset otherwise, and the feature
indexes if there are none.
*/
func featureNames(md *yaml.Metadata, fromData feature.Names, ds *dataset.Dataset) (feature.Names, error) {
	names := fromData
	if md != nil {
		names = md.Features
	}
	if len(names) == 0 {
		return feature.DefaultNames(ds.NumFeatures()), nil
	}
	if len(names) != ds.NumFeatures() {
		return nil, errors.Wrapf(dataset.ErrInvalidInput, "%d feature names for samples with %d features", len(names), ds.NumFeatures())
	}
	return names, nil
}
