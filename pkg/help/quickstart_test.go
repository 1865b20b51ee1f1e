package help

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestQuickstartYAML(t *testing.T) {
	var doc struct {
		ReportModes map[string]string `yaml:"report_modes"`
		Commands    map[string]string `yaml:"commands"`
		OutputFiles []string          `yaml:"output_files"`
	}
	if err := yaml.Unmarshal([]byte(QuickstartYAML), &doc); err != nil {
		t.Fatalf("QuickstartYAML is not valid YAML: %v", err)
	}

	for _, mode := range []string{"basic", "detailed"} {
		if doc.ReportModes[mode] == "" {
			t.Errorf("report mode %q not documented", mode)
		}
	}
	for name, cmd := range doc.Commands {
		if !strings.HasPrefix(cmd, "magfeedback ") {
			t.Errorf("command %s = %q, want a magfeedback invocation", name, cmd)
		}
	}
	if len(doc.OutputFiles) != 2 {
		t.Errorf("output_files = %v", doc.OutputFiles)
	}
}
