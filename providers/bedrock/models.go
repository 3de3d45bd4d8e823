package bedrock

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/models.yaml
var modelTableYAML []byte

// modelTable lists the model-id prefixes this provider recognizes. This is
// id matching only, not a capability catalog: the Converse API remains the
// source of truth for what any given model supports.
type modelTable struct {
	Prefixes []string `yaml:"prefixes"`
}

var (
	loadedModelTable     modelTable
	loadedModelTableOnce sync.Once
)

func knownModelPrefixes() []string {
	loadedModelTableOnce.Do(func() {
		if err := yaml.Unmarshal(modelTableYAML, &loadedModelTable); err != nil {
			// The table is embedded at build time; a parse failure is a
			// packaging bug, not a runtime condition.
			panic(fmt.Sprintf("bedrock: invalid embedded model table: %v", err))
		}
	})
	return loadedModelTable.Prefixes
}

// SupportsModel returns true if the model id matches a known Bedrock model
// family, inference profile region prefix, or provisioned throughput ARN.
func (p *Provider) SupportsModel(model string) bool {
	if model == "" {
		return false
	}
	for _, prefix := range knownModelPrefixes() {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
