package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	LinkedIn   LinkedInConfig   `yaml:"linkedin" mapstructure:"linkedin"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Browser    BrowserConfig    `yaml:"browser" mapstructure:"browser"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Owner      OwnerConfig      `yaml:"owner" mapstructure:"owner"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Run        RunConfig        `yaml:"run" mapstructure:"run"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// LinkedInConfig holds login credentials and the persisted session location.
type LinkedInConfig struct {
	Email       string `yaml:"email" mapstructure:"email"`
	Password    string `yaml:"password" mapstructure:"password"`
	SessionFile string `yaml:"session_file" mapstructure:"session_file"`
}

// SearchConfig configures candidate discovery.
type SearchConfig struct {
	Keywords          []string `yaml:"keywords" mapstructure:"keywords"`
	Locations         []string `yaml:"locations" mapstructure:"locations"`
	SeniorityKeywords []string `yaml:"seniority_keywords" mapstructure:"seniority_keywords"`
	MaxProfiles       int      `yaml:"max_profiles" mapstructure:"max_profiles"`
	MaxPages          int      `yaml:"max_pages" mapstructure:"max_pages"`
	ScrollRounds      int      `yaml:"scroll_rounds" mapstructure:"scroll_rounds"`
	StagnantRounds    int      `yaml:"stagnant_rounds" mapstructure:"stagnant_rounds"`
}

// BrowserConfig configures the driven Chrome session.
type BrowserConfig struct {
	Headless         bool   `yaml:"headless" mapstructure:"headless"`
	NavTimeoutSecs   int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	ActionsPerMinute int    `yaml:"actions_per_minute" mapstructure:"actions_per_minute"`
}

// AnthropicConfig holds Anthropic API settings for summarization and
// note crafting.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OwnerConfig carries the operator's bio, threaded into every summarization
// and note-crafting prompt.
type OwnerConfig struct {
	Bio string `yaml:"bio" mapstructure:"bio"`
}

// StoreConfig selects and configures the lead store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // xlsx, sqlite, postgres
	Path        string `yaml:"path" mapstructure:"path"`     // xlsx file or sqlite dsn
	Worksheet   string `yaml:"worksheet" mapstructure:"worksheet"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	RunsPath    string `yaml:"runs_path" mapstructure:"runs_path"` // run-history sqlite dsn
}

// NotionConfig holds the Notion export target.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// SalesforceConfig holds Salesforce credential-flow settings for lead sync.
type SalesforceConfig struct {
	Domain         string `yaml:"domain" mapstructure:"domain"`
	ConsumerKey    string `yaml:"consumer_key" mapstructure:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret" mapstructure:"consumer_secret"`
}

// RunConfig gates run behavior.
type RunConfig struct {
	TestMode bool `yaml:"test_mode" mapstructure:"test_mode"`
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// envAliases maps config keys to the bare environment variable names the
// original tooling used, so OUTREACH_-prefixed and legacy names both work.
var envAliases = map[string][]string{
	"linkedin.email":            {"LINKEDIN_EMAIL"},
	"linkedin.password":         {"LINKEDIN_PASSWORD"},
	"linkedin.session_file":     {"STORAGE_STATE_PATH"},
	"search.keywords":           {"SEARCH_KEYWORDS"},
	"search.locations":          {"LOCATIONS"},
	"search.seniority_keywords": {"SENIORITY_KEYWORDS"},
	"search.max_profiles":       {"MAX_PROFILES"},
	"browser.headless":          {"HEADLESS"},
	"browser.nav_timeout_ms":    {"NAVIGATION_TIMEOUT_MS"},
	"run.test_mode":             {"TEST_MODE"},
	"anthropic.key":             {"ANTHROPIC_API_KEY"},
	"owner.bio":                 {"OWNER_BIO"},
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	// Registered so Unmarshal sees the OUTREACH_-prefixed env value; AutomaticEnv
	// alone leaves unregistered keys invisible to Unmarshal.
	_ = v.BindEnv("browser.nav_timeout_secs")

	// Defaults
	v.SetDefault("linkedin.session_file", ".outreach/session.json")
	v.SetDefault("search.max_profiles", 25)
	v.SetDefault("search.max_pages", 10)
	v.SetDefault("search.scroll_rounds", 5)
	v.SetDefault("search.stagnant_rounds", 3)
	v.SetDefault("search.seniority_keywords", []string{
		"founder", "co-founder", "cto", "vp engineering",
		"head of engineering", "lead software engineer",
	})
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.actions_per_minute", 30)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("store.driver", "xlsx")
	v.SetDefault("store.path", "leads.xlsx")
	v.SetDefault("store.worksheet", "Leads")
	v.SetDefault("store.runs_path", ".outreach/runs.db")
	v.SetDefault("run.test_mode", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Comma-separated env values arrive as a single element.
	cfg.Search.Keywords = splitCSV(cfg.Search.Keywords)
	cfg.Search.Locations = splitCSV(cfg.Search.Locations)
	cfg.Search.SeniorityKeywords = splitCSV(cfg.Search.SeniorityKeywords)

	// The original tooling expressed the navigation timeout in milliseconds;
	// a second-granular setting takes precedence when both are present.
	if cfg.Browser.NavTimeoutSecs == 0 {
		if ms := v.GetInt("browser.nav_timeout_ms"); ms > 0 {
			cfg.Browser.NavTimeoutSecs = max(ms/1000, 1)
		} else {
			cfg.Browser.NavTimeoutSecs = 30
		}
	}

	return &cfg, nil
}

// Validate checks the settings a pipeline run cannot start without. These are
// the only configuration errors treated as fatal.
func (c *Config) Validate() error {
	if c.LinkedIn.Email == "" || c.LinkedIn.Password == "" {
		return eris.New("config: linkedin email and password are required")
	}
	if len(c.Search.Keywords) == 0 {
		return eris.New("config: at least one search keyword is required")
	}
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic key is required")
	}
	if c.Search.MaxProfiles <= 0 {
		return eris.Errorf("config: max_profiles must be positive, got %d", c.Search.MaxProfiles)
	}
	return nil
}

func splitCSV(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
