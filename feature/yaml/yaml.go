/*
Package yaml provides methods to parse feature specifications,
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/pbanos/sapling/feature"
)

/*
Metadata holds the names of the features of a dataset, in order,
and optionally names for its classes.
*/
type Metadata struct {
	Features feature.Names  `yaml:"features"`
	Classes  map[int]string `yaml:"classes,omitempty"`
}

/*
ClassName returns the name of the given class, or its
number if it has none.
*/
func (md *Metadata) ClassName(c int) string {
	if md != nil {
		if name, ok := md.Classes[c]; ok {
			return name
		}
	}
	return fmt.Sprintf("%d", c)
}

/*
ReadMetadata takes a slice of bytes with a feature specification in YAML
and returns the Metadata parsed from it or an error.
The YAML is expected to be an object containing a features property with
the list of feature names, and optionally a classes property mapping
class numbers to names:

	features: [sunny, windy, humid]
	classes:
	  1: play
	  2: stay
*/
func ReadMetadata(data []byte) (*Metadata, error) {
	md := &Metadata{}
	err := yaml.UnmarshalStrict(data, md)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yml metadata")
	}
	if md.Features == nil {
		return nil, errors.New("metadata file has no feature information")
	}
	seen := make(map[string]bool)
	for _, name := range md.Features {
		if seen[name] {
			return nil, errors.Errorf("feature %q declared twice", name)
		}
		seen[name] = true
	}
	for c := range md.Classes {
		if c < 1 {
			return nil, errors.Errorf("invalid class %d, classes must be positive", c)
		}
	}
	return md, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the parsed Metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading metadata yml file %s", filepath)
	}
	md, err := ReadMetadata(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing metadata yml file %s", filepath)
	}
	return md, nil
}

// WriteMetadata takes Metadata and returns it encoded as YAML.
func WriteMetadata(md *Metadata) ([]byte, error) {
	return yaml.Marshal(md)
}
