// Package config, sqlquery.Config değerini yapılandırma dosyası ve ortam
// değişkenlerinden yükler.
//
// Öncelik sırası: ortam değişkenleri > dosya > sqlquery.DefaultConfig().
// Ortam değişkenleri PREFIX_KEY biçimindedir (ör. SQLQUERY_MAX_OPEN_CONNS).
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	sqlquery "github.com/biyonik/go-sqlquery"
)

// DefaultEnvPrefix, prefix verilmediğinde kullanılır.
const DefaultEnvPrefix = "SQLQUERY"

// Load, path boş değilse dosyayı (yaml, json veya toml) okur, ortam
// değişkenlerini uygular ve sonucu döndürür. Verilen dosya bulunamazsa hata döner.
func Load(path, prefix string) (*sqlquery.Config, error) {
	v := viper.New()
	setDefaults(v, sqlquery.DefaultConfig())

	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	v.SetEnvPrefix(strings.TrimSuffix(strings.ToUpper(prefix), "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	cfg := &sqlquery.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults, tüm anahtarları viper'a tanıtır; AutomaticEnv yalnızca bilinen
// anahtarları Unmarshal'a taşır.
func setDefaults(v *viper.Viper, d *sqlquery.Config) {
	v.SetDefault("driver", d.Driver)
	v.SetDefault("dialect", d.Dialect)
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("database", d.Database)
	v.SetDefault("username", d.Username)
	v.SetDefault("password", d.Password)
	v.SetDefault("charset", d.Charset)
	v.SetDefault("collation", d.Collation)
	v.SetDefault("tls", d.TLS)
	v.SetDefault("max_open_conns", d.MaxOpenConns)
	v.SetDefault("max_idle_conns", d.MaxIdleConns)
	v.SetDefault("conn_max_life", d.ConnMaxLife)
	v.SetDefault("conn_max_idle", d.ConnMaxIdle)
	v.SetDefault("async_workers", d.AsyncWorkers)
	v.SetDefault("naming", d.Naming)
	v.SetDefault("debug", d.Debug)
}

// NewLogger, seviye ("DEBUG", "INFO", "WARN", "ERROR") ve biçime ("json" veya
// "text") göre bir *slog.Logger oluşturur.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
