// Package token resolves the Telegram bot token from an ordered list of
// sources. The first source that yields a non-empty value wins.
package token

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eliseohh/stickershotbot/internal/secrets"
)

const (
	// EnvPrimary is the preferred token variable name.
	EnvPrimary = "TSSLG"
	// EnvAlias is the conventional Telegram token variable name.
	EnvAlias = "TELEGRAM_BOT_TOKEN"

	DotEnvFile       = ".env"
	SettingsFileName = "config"
)

// ErrNotFound is returned when no source yields a token.
var ErrNotFound = errors.New("bot token not found")

// Token is the bot's access credential. Its String form is masked.
type Token string

func (t Token) String() string {
	if len(t) <= 8 {
		return "***"
	}
	return string(t[:4]) + "***"
}

// Source is one place a token may live. Lookup returns "" with a nil error
// when the place simply holds no token.
type Source struct {
	Name   string
	Lookup func() (string, error)
}

// EnvSource reads the environment variable key.
func EnvSource(key string) Source {
	return Source{
		Name: "env " + key,
		Lookup: func() (string, error) {
			return os.Getenv(key), nil
		},
	}
}

// DotEnvSource scans a KEY=value file line by line and returns the value of
// the first line that assigns one of keys. Other lines are ignored, even
// malformed ones. A missing file is not an error.
func DotEnvSource(path string, keys ...string) Source {
	return Source{
		Name: path,
		Lookup: func() (string, error) {
			f, err := os.Open(path)
			if errors.Is(err, os.ErrNotExist) {
				return "", nil
			}
			if err != nil {
				return "", fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			sc := bufio.NewScanner(f)
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				key, ok := assignedKey(line, keys)
				if !ok {
					continue
				}
				entry, err := godotenv.Unmarshal(line)
				if err != nil {
					continue
				}
				if v := trimValue(entry[key]); v != "" {
					return v, nil
				}
			}
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("read %s: %w", path, err)
			}
			return "", nil
		},
	}
}

// assignedKey reports which of keys line assigns with a KEY= prefix.
func assignedKey(line string, keys []string) (string, bool) {
	for _, k := range keys {
		if strings.HasPrefix(line, k+"=") {
			return k, true
		}
	}
	return "", false
}

// SettingsSource reads the settings file named name (any extension viper
// understands) from dir and returns the first of keys present. Values
// wrapped in ENC[...] are decrypted. A missing file is not an error.
func SettingsSource(dir, name string, keys ...string) Source {
	return Source{
		Name: filepath.Join(dir, name+".*"),
		Lookup: func() (string, error) {
			v := viper.New()
			v.SetConfigName(name)
			v.AddConfigPath(dir)

			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if errors.As(err, &notFound) {
					return "", nil
				}
				return "", fmt.Errorf("read settings: %w", err)
			}

			for _, k := range keys {
				raw := trimValue(v.GetString(k))
				if raw == "" {
					continue
				}
				val, err := secrets.Reveal(raw)
				if err != nil {
					return "", fmt.Errorf("settings key %s: %w", k, err)
				}
				return val, nil
			}
			return "", nil
		},
	}
}

// DefaultSources is the lookup order used by the bot:
// TSSLG env, TELEGRAM_BOT_TOKEN env, .env file, settings file.
func DefaultSources(dir string) []Source {
	return []Source{
		EnvSource(EnvPrimary),
		EnvSource(EnvAlias),
		DotEnvSource(filepath.Join(dir, DotEnvFile), EnvPrimary, EnvAlias),
		SettingsSource(dir, SettingsFileName, EnvPrimary, EnvAlias),
	}
}

func trimValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// Resolver walks its sources in order.
type Resolver struct {
	log     *zap.Logger
	sources []Source
}

func NewResolver(log *zap.Logger, sources ...Source) *Resolver {
	return &Resolver{log: log, sources: sources}
}

// Resolve returns the first non-empty token, or ErrNotFound.
// A failing source is logged and skipped.
func (r *Resolver) Resolve() (Token, error) {
	for _, src := range r.sources {
		val, err := src.Lookup()
		if err != nil {
			r.log.Warn("token source failed", zap.String("source", src.Name), zap.Error(err))
			continue
		}
		if val == "" {
			r.log.Debug("token source empty", zap.String("source", src.Name))
			continue
		}

		tok := Token(val)
		r.log.Info("token loaded", zap.String("source", src.Name), zap.Stringer("token", tok))
		return tok, nil
	}

	r.log.Error("bot token not found",
		zap.String("hint_file", DotEnvFile+": "+EnvPrimary+"=<token>"),
		zap.String("hint_env", "export "+EnvPrimary+"=<token>"),
	)
	return "", ErrNotFound
}

// Instructions writes setup guidance for an operator who has no token configured.
func Instructions(w io.Writer) {
	line := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintln(w, "⚠️  ТОКЕН БОТА НЕ НАСТРОЕН!")
	fmt.Fprintln(w, line)
	fmt.Fprint(w, "\n📝 Выберите один из способов настройки:\n\n")
	fmt.Fprintln(w, "1️⃣  Создайте файл .env в этой папке:")
	fmt.Fprintf(w, "    %s=ваш_токен_от_BotFather\n", EnvPrimary)
	fmt.Fprintln(w, "\n2️⃣  Или установите переменную окружения:")
	fmt.Fprintf(w, "    export %s=ваш_токен_от_BotFather\n", EnvPrimary)
	fmt.Fprintf(w, "\n3️⃣  Или создайте файл %s.toml:\n", SettingsFileName)
	fmt.Fprintf(w, "    %s = 'ваш_токен_от_BotFather'\n", EnvPrimary)
	fmt.Fprintf(w, "\n%s\n\n", line)
}
