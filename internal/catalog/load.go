package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/types"
)

// file is the on-disk shape of catalog.yaml: a top-level `databases` list,
// each entry decoding straight into types.DatabaseConfig (whose
// ConnectionRef already implements yaml.Unmarshaler for the env_var /
// credentials tagged union).
type file struct {
	Databases []types.DatabaseConfig `yaml:"databases"`
}

// Load reads and parses catalog.yaml at path into the catalog the Planner
// consumes, the same direct yaml.Unmarshal(data, &cfg) shape
// internal/config's LoadLocalConfig uses rather than routing through
// viper, since ConnectionRef's custom UnmarshalYAML only runs against a
// real YAML decode and would be bypassed by viper's mapstructure layer.
func Load(path string) ([]types.DatabaseConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied catalog path
	if err != nil {
		return nil, errs.Wrap(errs.CodePlanNotFound, errs.SeverityFatal, false, "reading catalog file "+path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.CodePlanInvalid, errs.SeverityFatal, false, "parsing catalog file "+path, err)
	}

	if len(f.Databases) == 0 {
		return nil, errs.New(errs.CodePlanInvalid, errs.SeverityFatal, false, fmt.Sprintf("catalog file %s declares no databases", path))
	}

	seen := make(map[string]bool, len(f.Databases))
	for _, db := range f.Databases {
		if db.Name == "" {
			return nil, errs.New(errs.CodePlanInvalid, errs.SeverityFatal, false, "catalog entry missing required name field")
		}
		if seen[db.Name] {
			return nil, errs.New(errs.CodePlanInvalid, errs.SeverityFatal, false, "catalog declares database \""+db.Name+"\" more than once")
		}
		seen[db.Name] = true
		if _, ok := registry[db.EngineKind]; !ok {
			return nil, errs.New(errs.CodePlanInvalid, errs.SeverityFatal, false, "catalog database \""+db.Name+"\" has unknown engine_kind \""+db.EngineKind+"\"")
		}
	}

	return f.Databases, nil
}
