package types

// RenderBackend identifies the page rasterizer.
type RenderBackend string

const (
	BackendMuPDF   RenderBackend = "mupdf"
	BackendPoppler RenderBackend = "poppler"
)

// RenderConfig holds settings for page rasterization. Pages are always
// rendered at their native resolution (one pixel per PDF point), so there is
// no DPI or scale setting.
type RenderConfig struct {
	// Backend selects the rasterizer: mupdf (default) or poppler.
	Backend RenderBackend `json:"backend" yaml:"backend"`
}

// GrayscaleConfig holds settings for the grayscale conversion stage.
type GrayscaleConfig struct {
	Render RenderConfig `json:"render" yaml:"render"`

	// Suffix is inserted before the .pdf extension of the input name to
	// form the output name (default "_bw").
	Suffix string `json:"suffix" yaml:"suffix"`
}

// MergeConfig holds settings for the merge stage.
type MergeConfig struct {
	// Output is the default path of the merged document (default "merged.pdf").
	Output string `json:"output" yaml:"output"`
}

// HistoryConfig holds settings for the job history database.
type HistoryConfig struct {
	// Dir is the directory holding history.db and its exports.
	Dir string `json:"dir" yaml:"dir"`

	// Disabled turns off job recording.
	Disabled bool `json:"disabled" yaml:"disabled"`

	// MaxResults is the default number of jobs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Merge     MergeConfig     `json:"merge" yaml:"merge"`
	Grayscale GrayscaleConfig `json:"grayscale" yaml:"grayscale"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
