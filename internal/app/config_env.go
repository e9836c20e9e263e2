package app

import (
    "errors"
    "io/fs"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// LoadDotenv loads KEY=VALUE pairs from the given dotenv files (".env" when
// none are given). Variables already present in the environment win, and
// missing files are not an error.
func LoadDotenv(paths ...string) error {
    if len(paths) == 0 {
        paths = []string{".env"}
    }
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        if err := godotenv.Load(p); err != nil {
            if errors.Is(err, fs.ErrNotExist) {
                continue
            }
            return err
        }
    }
    return nil
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. Env takes precedence over values
// coming from a config file.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := os.Getenv("IDSCAN_CONFIG"); v != "" && cfg.ConfigPath == "" { cfg.ConfigPath = v }
    if v := strings.TrimSpace(os.Getenv("IDSCAN_USER_AGENT")); v != "" { cfg.UserAgent = v }

    if s := os.Getenv("IDSCAN_TIMEOUT"); s != "" {
        if d, err := time.ParseDuration(s); err == nil {
            cfg.Timeout = d
        }
    }
    if s := strings.TrimSpace(os.Getenv("IDSCAN_MAX_REDIRECTS")); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            cfg.MaxRedirects = n
        }
    }

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.TryHarder, "IDSCAN_TRY_HARDER")
    setBool(&cfg.Verbose, "IDSCAN_VERBOSE")
}
