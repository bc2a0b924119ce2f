package spec

// EvalSpec is the YAML description of one evaluation pass: where the scored
// edges come from and which metrics to reduce.
type EvalSpec struct {
	Dataset Dataset `yaml:"dataset"`
	Metrics Metrics `yaml:"metrics"`
}

type Dataset struct {
	Type       string `yaml:"type"` // csv, postgres or sqlite
	Path       string `yaml:"path,omitempty"`
	Connection string `yaml:"connection,omitempty"`
	Table      string `yaml:"table,omitempty"`
	BatchSize  int    `yaml:"batch_size"`
}

type Metrics struct {
	K         int      `yaml:"k"`
	Names     []string `yaml:"names"`
	Undefined string   `yaml:"undefined"`
}
