package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/idscan/internal/fields"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
    Fetch struct {
        Timeout      time.Duration `yaml:"timeout" json:"timeout"`
        UserAgent    string        `yaml:"userAgent" json:"userAgent"`
        MaxRedirects *int          `yaml:"maxRedirects" json:"maxRedirects"`
    } `yaml:"fetch" json:"fetch"`

    Decode struct {
        TryHarder *bool `yaml:"tryHarder" json:"tryHarder"`
    } `yaml:"decode" json:"decode"`

    Verbose bool `yaml:"verbose" json:"verbose"`

    // Patterns overrides field expressions by record key.
    Patterns map[string]string `yaml:"patterns" json:"patterns"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from fc onto cfg. Zero values in the file
// leave cfg untouched.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if fc.Fetch.Timeout > 0 { cfg.Timeout = fc.Fetch.Timeout }
    if fc.Fetch.UserAgent != "" { cfg.UserAgent = fc.Fetch.UserAgent }
    if fc.Fetch.MaxRedirects != nil { cfg.MaxRedirects = *fc.Fetch.MaxRedirects }
    if fc.Decode.TryHarder != nil { cfg.TryHarder = *fc.Decode.TryHarder }
    if fc.Verbose { cfg.Verbose = true }

    if len(fc.Patterns) > 0 {
        if cfg.Patterns == nil {
            cfg.Patterns = make(map[string]string, len(fc.Patterns))
        }
        for k, v := range fc.Patterns {
            cfg.Patterns[k] = v
        }
    }
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
    if cfg.Timeout <= 0 {
        return errors.New("config: fetch timeout must be positive")
    }
    if cfg.MaxRedirects < 0 {
        return errors.New("config: negative redirect limit is not allowed")
    }
    if _, err := fields.NewMatcher(cfg.Patterns); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    return nil
}
