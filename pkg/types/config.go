package types

import "time"

// ProjectConfig holds the paths shared by every stage of the toolchain.
type ProjectConfig struct {
	// MappingPath is the extraction mapping file (e.g. "babel.cfg").
	MappingPath string `json:"mapping" yaml:"mapping"`

	// Root is the project root directory that glob patterns resolve against.
	Root string `json:"root" yaml:"root"`

	// LocaleDir is the base directory for catalogs
	// (contains <lang>/LC_MESSAGES/ and index/).
	LocaleDir string `json:"locale_dir" yaml:"locale_dir"`
}

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	ProjectConfig `yaml:",inline"`

	// Output is the path of the template catalog to write
	// (default <locale_dir>/messages.pot).
	Output string `json:"output" yaml:"output"`
}

// CatalogConfig holds settings for the init/update/compile stages.
type CatalogConfig struct {
	ProjectConfig `yaml:",inline"`

	// SourceLocale is the language the message ids are written in
	// (default "en"); compile uses it as the bundle base language.
	SourceLocale string `json:"source_locale" yaml:"source_locale"`

	// IncludeFuzzy controls whether fuzzy entries are compiled.
	IncludeFuzzy bool `json:"include_fuzzy" yaml:"include_fuzzy"`
}

// IndexConfig holds settings for the message index stage.
type IndexConfig struct {
	ProjectConfig `yaml:",inline"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "localize-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// TranslateConfig holds settings for the machine-translation stage.
type TranslateConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the translation API base URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey authenticates against the translation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Region is the API resource region header, if the service needs one.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// BatchSize is the number of strings sent per request (default 25).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MaxRetries is the number of retry attempts on rate limiting (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig groups all stage configurations for the toolchain.
type PipelineConfig struct {
	Extract   ExtractConfig   `json:"extract" yaml:"extract"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Translate TranslateConfig `json:"translate" yaml:"translate"`
}
