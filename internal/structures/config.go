package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type BilibiliConfig struct {
	BaseURL      string        `yaml:"baseUrl" validate:"required|fullUrl"`
	RequestDelay time.Duration `yaml:"requestDelay" validate:"required|min:1"`
	Timeout      time.Duration `yaml:"timeout"`
}

type YoutubeConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required|fullUrl"`
	APIKey  string        `yaml:"apiKey" validate:"required"`
	Timeout time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	BilibiliDir  string `yaml:"bilibiliDir" validate:"required|unixPath"`
	YoutubeDir   string `yaml:"youtubeDir" validate:"required|unixPath"`
	Level1Length int    `yaml:"level1Length"`
	Level2Length int    `yaml:"level2Length"`
	HashLength   int    `yaml:"hashLength"`
	SnapshotDir  string `yaml:"snapshotDir"`
}

type ScannerConfig struct {
	SweepInterval time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
	MaxPerSweep   int           `yaml:"maxPerSweep"`
	VideoSample   int           `yaml:"videoSample"`
}

type SubmissionConfig struct {
	HourlyLimit int `yaml:"hourlyLimit"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Bilibili   BilibiliConfig   `yaml:"bilibili"`
	Youtube    YoutubeConfig    `yaml:"youtube"`
	Store      StoreConfig      `yaml:"store"`
	Scanner    ScannerConfig    `yaml:"scanner"`
	Submission SubmissionConfig `yaml:"submission"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
