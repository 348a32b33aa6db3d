package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/sales-insights/internal/model"
)

// WriteSummary writes the run summary as YAML.
func WriteSummary(path string, summary model.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "summary: marshal")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "summary: create dir %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "summary: write %s", path)
	}
	return nil
}
