package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"

	BackendLocal  = "local"
	BackendRemote = "remote"

	devJWTSecret = "dev_secret_change_me"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	StoreDriver string // postgres / sqlite

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	SQLitePath string // STORE_DRIVER=sqlite のときのファイル

	JWTSecret      string        // JWT署名シークレット
	AccessTokenTTL time.Duration // 7日
	BcryptCost     int

	GoEnv       string // dev/prod
	FEURL       string // フロントURL（CORSなどで使う）
	LogLevel    string // debug/info/warn/error
	LogFormat   string // json/text
	SeedCatalog bool   // 起動時にカタログを入れる
}

// CLIの設定
type ClientConfig struct {
	Backend    string // local / remote
	APIBaseURL string // remoteのときの接続先
	StorePath  string // セッション・ローカルデータのsqliteファイル
	LogLevel   string
	LogFormat  string
}

// .envがあれば読む（無ければ何もしない）
func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Loadは環境変数
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	cost, err := atoiDefault("BCRYPT_COST", 12)
	if err != nil {
		return Config{}, err
	}
	ttl, err := durationDefault("ACCESS_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	seed, err := boolDefault("SEED_CATALOG", true)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", StoreDriverPostgres)),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "yoolivery"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getenv("SQLITE_PATH", "yoolivery-server.db"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: ttl,
		BcryptCost:     cost,

		GoEnv:       getenv("GO_ENV", "dev"),
		FEURL:       getenv("FE_URL", "http://localhost:3000"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "json"),
		SeedCatalog: seed,
	}

	//必須チェック
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverSQLite {
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverSQLite)
	}
	if cfg.JWTSecret == "" {
		// 本番は必須。開発は固定値で動かす
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

// DATABASE_URL があれば最優先で使う
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// ":8080" の形にする
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func LoadClient() (ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		Backend:    strings.ToLower(getenv("YOOLIVERY_BACKEND", BackendLocal)),
		APIBaseURL: strings.TrimRight(getenv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		StorePath:  getenv("STORE_PATH", "yoolivery.db"),
		LogLevel:   getenv("LOG_LEVEL", "warn"),
		LogFormat:  getenv("LOG_FORMAT", "text"),
	}

	if cfg.Backend != BackendLocal && cfg.Backend != BackendRemote {
		return ClientConfig{}, fmt.Errorf("YOOLIVERY_BACKEND must be %q or %q", BackendLocal, BackendRemote)
	}
	if cfg.Backend == BackendRemote && cfg.APIBaseURL == "" {
		return ClientConfig{}, fmt.Errorf("API_BASE_URL is required")
	}
	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be true/false: %w", key, err)
	}
	return b, nil
}
