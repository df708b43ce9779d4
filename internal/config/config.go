// Package config loads application settings using Viper
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/raykavin/stockview/pkg/client"
	"github.com/raykavin/stockview/pkg/core"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "STOCKVIEW"

// Defaults
const (
	DefaultPort          = 8080
	DefaultSymbol        = "AAPL"
	DefaultChartHeight   = 400
	DefaultHTTPTimeout   = "30s"
	DefaultLogLevel      = "info"
	DefaultLogTimeFormat = "2006-01-02 15:04:05"
)

// Load reads settings from STOCKVIEW_* environment variables and, when path is
// not empty, from a configuration file. Environment values win over the file.
func Load(path string) (*core.Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_url", client.DefaultBaseURL)
	v.SetDefault("data_dir", "")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("default_symbol", DefaultSymbol)
	v.SetDefault("chart_height", DefaultChartHeight)
	v.SetDefault("debug", false)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.time_format", DefaultLogTimeFormat)
	v.SetDefault("log.color", true)
	v.SetDefault("log.json", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	timeout, err := str2duration.ParseDuration(v.GetString("http_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid http_timeout: %w", err)
	}

	settings := &core.Settings{
		APIURL:        strings.TrimRight(v.GetString("api_url"), "/"),
		DataDir:       v.GetString("data_dir"),
		Port:          v.GetInt("port"),
		DefaultSymbol: strings.ToUpper(strings.TrimSpace(v.GetString("default_symbol"))),
		ChartHeight:   v.GetInt("chart_height"),
		HTTPTimeout:   timeout,
		Debug:         v.GetBool("debug"),
		Log: core.LogSettings{
			Level:      v.GetString("log.level"),
			TimeFormat: v.GetString("log.time_format"),
			Colored:    v.GetBool("log.color"),
			JSON:       v.GetBool("log.json"),
		},
	}

	if err := Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks settings coming from flags or Load
func Validate(settings *core.Settings) error {
	endpoint, err := url.Parse(settings.APIURL)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return fmt.Errorf("invalid api_url %q", settings.APIURL)
	}

	if settings.Port <= 0 || settings.Port > 65535 {
		return fmt.Errorf("invalid port %d", settings.Port)
	}

	if settings.ChartHeight <= 0 {
		return fmt.Errorf("invalid chart_height %d", settings.ChartHeight)
	}

	if settings.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid http_timeout %s", settings.HTTPTimeout)
	}

	if settings.DefaultSymbol == "" {
		return core.ErrEmptySymbol
	}

	return nil
}
