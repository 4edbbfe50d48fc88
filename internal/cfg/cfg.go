package cfg

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar: переменная окружения с путём к YAML-файлу конфигурации (необязательно).
const ConfigPathEnvVar = "CONFIG_PATH"

// Источники данных каталога и избранного.
const (
	SourceAPI      = "api"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
)

// Варианты рекомендательного движка.
const (
	VariantFavorites   = "favorites"
	VariantPreferences = "preferences"
)

type Config struct {
	Log         LogCfg         `koanf:"log"`
	Http        HTTPConfig     `koanf:"http"`
	Grpc        GRPCConfig     `koanf:"grpc"`
	Db          PGDBCfg        `koanf:"db"`
	Redis       RedisCfg       `koanf:"redis"`
	Kafka       KafkaCfg       `koanf:"kafka"`
	Minio       MinIOCfg       `koanf:"minio"`
	Catalog     CatalogCfg     `koanf:"catalog"`
	Recommender RecommenderCfg `koanf:"recommender"`
}

type LogCfg struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json | console
}

type HTTPConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       int           `koanf:"rate_limit"` // запросов на IP за RateWindow, 0 отключает лимит
	RateWindow      time.Duration `koanf:"rate_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	SwaggerURL      string        `koanf:"swagger_url"`
}

type GRPCConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Port        string `koanf:"port"`
	NetworkMode string `koanf:"network_mode"`
}

type PGDBCfg struct {
	Host           string `koanf:"host"`
	Port           string `koanf:"port"`
	User           string `koanf:"user"`
	Password       string `koanf:"password"`
	DBName         string `koanf:"name"`
	SSLMode        string `koanf:"ssl_mode"`
	MaxConns       int32  `koanf:"max_conns"`
	MigrationsPath string `koanf:"migrations_path"`
}

type RedisCfg struct {
	Enabled     bool          `koanf:"enabled"`
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	User        string        `koanf:"user"`
	DB          int           `koanf:"db"`
	MaxRetries  int           `koanf:"max_retries"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
	Timeout     time.Duration `koanf:"timeout"`
	CatalogTTL  time.Duration `koanf:"catalog_ttl"`
}

type KafkaCfg struct {
	Enabled           bool     `koanf:"enabled"`
	Topic             string   `koanf:"topic"`
	Brokers           []string `koanf:"brokers"`
	NetworkMode       string   `koanf:"network_mode"`
	Partitions        int      `koanf:"partitions"`
	ReplicationFactor int      `koanf:"replication_factor"`
}

type MinIOCfg struct {
	Enabled           bool   `koanf:"enabled"`
	MinioEndpoint     string `koanf:"endpoint"`
	BucketName        string `koanf:"bucket_name"`
	MinioRootUser     string `koanf:"root_user"`
	MinioRootPassword string `koanf:"root_password"`
	MinioUseSSL       bool   `koanf:"use_ssl"`
	SnapshotKey       string `koanf:"snapshot_key"`       // ключ JSON-снимка каталога в бакете
	SnapshotRetention int    `koanf:"snapshot_retention"` // сколько архивных снимков хранить, 0 отключает архив
}

// CatalogCfg описывает, откуда брать каталог и избранное пользователя.
type CatalogCfg struct {
	Source          string        `koanf:"source"`           // api | postgres | s3
	FavoritesSource string        `koanf:"favorites_source"` // api | postgres
	ProductsURL     string        `koanf:"products_url"`
	FavoritesURL    string        `koanf:"favorites_url"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	MaxRetries      int           `koanf:"max_retries"`
	BaseBackoff     time.Duration `koanf:"base_backoff"`
	MaxBackoff      time.Duration `koanf:"max_backoff"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	BreakerFailures uint32        `koanf:"breaker_failures"` // подряд идущих ошибок до размыкания
}

// RecommenderCfg: выбранный вариант и таблица весов/top-N по вариантам.
type RecommenderCfg struct {
	Variant     string     `koanf:"variant"`
	Favorites   VariantCfg `koanf:"favorites"`
	Preferences VariantCfg `koanf:"preferences"`
}

type VariantCfg struct {
	CategoryWeight    float64 `koanf:"category_weight"`
	DescriptionWeight float64 `koanf:"description_weight"`
	TopN              int     `koanf:"top_n"`
}

// Active возвращает настройки выбранного варианта.
func (r RecommenderCfg) Active() VariantCfg {
	if r.Variant == VariantPreferences {
		return r.Preferences
	}
	return r.Favorites
}

func defaultConfig() *Config {
	return &Config{
		Log: LogCfg{Level: "info", Format: "json"},
		Http: HTTPConfig{
			Port:            "8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       100,
			RateWindow:      time.Minute,
			CORSOrigins:     []string{"*"},
			SwaggerURL:      "http://localhost:8080/swagger/doc.json",
		},
		Grpc: GRPCConfig{
			Enabled:     true,
			Port:        "8091",
			NetworkMode: "tcp",
		},
		Db: PGDBCfg{
			Host:           "localhost",
			Port:           "5432",
			SSLMode:        "disable",
			MigrationsPath: "file://db/migrations",
		},
		Redis: RedisCfg{
			Enabled:     false,
			Addr:        "localhost:6379",
			MaxRetries:  3,
			DialTimeout: 5 * time.Second,
			Timeout:     3 * time.Second,
			CatalogTTL:  3 * time.Minute,
		},
		Kafka: KafkaCfg{
			Enabled:           false,
			Topic:             "recommendations.served",
			NetworkMode:       "tcp",
			Partitions:        3,
			ReplicationFactor: 1,
		},
		Minio: MinIOCfg{
			Enabled:           false,
			MinioEndpoint:     "minio:9000",
			BucketName:        "catalog",
			SnapshotKey:       "snapshots/products.json",
			SnapshotRetention: 5,
		},
		Catalog: CatalogCfg{
			Source:          SourceAPI,
			FavoritesSource: SourceAPI,
			ProductsURL:     "https://qasimshutta.shop/2test/e-commerce-halfa/products/get_products_without_catogery.php",
			FavoritesURL:    "https://qasimshutta.shop/2test/e-commerce-halfa/products/get_products_without_catgoery_with_fav.php",
			RequestTimeout:  10 * time.Second,
			MaxRetries:      3,
			BaseBackoff:     200 * time.Millisecond,
			MaxBackoff:      3 * time.Second,
			BreakerTimeout:  30 * time.Second,
			BreakerFailures: 5,
		},
		Recommender: RecommenderCfg{
			Variant:     VariantFavorites,
			Favorites:   VariantCfg{CategoryWeight: 0.6, DescriptionWeight: 0.4, TopN: 5},
			Preferences: VariantCfg{CategoryWeight: 0.5, DescriptionWeight: 0.3, TopN: 3},
		},
	}
}

// envMappings сопоставляет переменные окружения путям конфигурации.
// Имена переменных совпадают с теми, что уже используются в docker-compose сервисов.
var envMappings = map[string]string{
	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",

	"HTTP_PORT":             "http.port",
	"HTTP_READ_TIMEOUT":     "http.read_timeout",
	"HTTP_WRITE_TIMEOUT":    "http.write_timeout",
	"KEEP_ALIVE":            "http.idle_timeout",
	"HTTP_SHUTDOWN_TIMEOUT": "http.shutdown_timeout",
	"HTTP_RATE_LIMIT":       "http.rate_limit",
	"HTTP_RATE_WINDOW":      "http.rate_window",
	"CORS_ORIGINS":          "http.cors_origins",
	"SWAGGER_URL":           "http.swagger_url",

	"GRPC_ENABLED":      "grpc.enabled",
	"GRPC_PORT":         "grpc.port",
	"GRPC_NETWORK_MODE": "grpc.network_mode",

	"POSTGRES_HOST":      "db.host",
	"POSTGRES_PORT":      "db.port",
	"POSTGRES_USER":      "db.user",
	"POSTGRES_PASSWORD":  "db.password",
	"POSTGRES_DB":        "db.name",
	"SSL_MODE":           "db.ssl_mode",
	"POSTGRES_MAX_CONNS": "db.max_conns",
	"MIGRATIONS_PATH":    "db.migrations_path",

	"REDIS_ENABLED":  "redis.enabled",
	"REDIS_ADDR":     "redis.addr",
	"REDIS_PASSWORD": "redis.password",
	"REDIS_USER":     "redis.user",
	"REDIS_DB_ID":    "redis.db",
	"MAX_RETRIES":    "redis.max_retries",
	"DIAL_TIMEOUT":   "redis.dial_timeout",
	"REDIS_TIMEOUT":  "redis.timeout",
	"CATALOG_TTL":    "redis.catalog_ttl",

	"KAFKA_ENABLED":      "kafka.enabled",
	"KAFKA_TOPIC":        "kafka.topic",
	"KAFKA_BROKERS":      "kafka.brokers",
	"KAFKA_NETWORK_MODE": "kafka.network_mode",
	"KAFKA_PARTITIONS":   "kafka.partitions",
	"REPLICATION_FACTOR": "kafka.replication_factor",

	"MINIO_ENABLED":        "minio.enabled",
	"MINIO_ENDPOINT":       "minio.endpoint",
	"BUCKET_NAME":          "minio.bucket_name",
	"MINIO_ROOT_USER":      "minio.root_user",
	"MINIO_ROOT_PASSWORD":  "minio.root_password",
	"MINIO_USE_SSL":        "minio.use_ssl",
	"CATALOG_SNAPSHOT_KEY": "minio.snapshot_key",
	"SNAPSHOT_RETENTION":   "minio.snapshot_retention",

	"CATALOG_SOURCE":            "catalog.source",
	"FAVORITES_SOURCE":          "catalog.favorites_source",
	"SHOP_PRODUCTS_URL":         "catalog.products_url",
	"SHOP_FAVORITES_URL":        "catalog.favorites_url",
	"SHOP_REQUEST_TIMEOUT":      "catalog.request_timeout",
	"SHOP_MAX_RETRIES":          "catalog.max_retries",
	"SHOP_BASE_BACKOFF":         "catalog.base_backoff",
	"SHOP_MAX_BACKOFF":          "catalog.max_backoff",
	"SHOP_BREAKER_TIMEOUT":      "catalog.breaker_timeout",
	"SHOP_BREAKER_MAX_FAILURES": "catalog.breaker_failures",

	"RECOMMENDER_VARIANT":            "recommender.variant",
	"FAVORITES_CATEGORY_WEIGHT":      "recommender.favorites.category_weight",
	"FAVORITES_DESCRIPTION_WEIGHT":   "recommender.favorites.description_weight",
	"FAVORITES_TOP_N":                "recommender.favorites.top_n",
	"PREFERENCES_CATEGORY_WEIGHT":    "recommender.preferences.category_weight",
	"PREFERENCES_DESCRIPTION_WEIGHT": "recommender.preferences.description_weight",
	"PREFERENCES_TOP_N":              "recommender.preferences.top_n",
}

// sliceConfigPaths: поля, которые в переменных окружения задаются через запятую.
var sliceConfigPaths = []string{
	"http.cors_origins",
	"kafka.brokers",
}

// Load загружает конфигурацию: значения по умолчанию → YAML-файл (CONFIG_PATH) → переменные окружения.
func Load(log logger.Logger) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			log.Errorf(err, "failed to read config file %s", path)
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		log.Infof("config file loaded: %s", path)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		log.Errorf(err, "failed to decode configuration")
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrIncorrectEnvVariable, err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cfg, nil
}

// envTransformFunc переводит имя переменной окружения в путь koanf.
// Переменные, которых нет в envMappings, игнорируются.
func envTransformFunc(key string) string {
	return envMappings[key]
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := make([]string, 0)
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}

		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	return nil
}

// UsesPostgres сообщает, нужен ли приложению PostgreSQL при текущей конфигурации.
func (c *Config) UsesPostgres() bool {
	return c.Catalog.Source == SourcePostgres ||
		c.Catalog.FavoritesSource == SourcePostgres ||
		c.Recommender.Variant == VariantPreferences
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var problems []string

	switch c.Recommender.Variant {
	case VariantFavorites, VariantPreferences:
	default:
		problems = append(problems, fmt.Sprintf("unknown recommender variant %q", c.Recommender.Variant))
	}

	for name, v := range map[string]VariantCfg{
		VariantFavorites:   c.Recommender.Favorites,
		VariantPreferences: c.Recommender.Preferences,
	} {
		if v.CategoryWeight < 0 || v.DescriptionWeight < 0 {
			problems = append(problems, fmt.Sprintf("%s weights must be non-negative", name))
		}
	}

	switch c.Catalog.Source {
	case SourceAPI:
		if c.Catalog.ProductsURL == "" {
			problems = append(problems, "SHOP_PRODUCTS_URL is required for api catalog source")
		}
	case SourcePostgres:
	case SourceS3:
		if !c.Minio.Enabled {
			problems = append(problems, "s3 catalog source requires MINIO_ENABLED=true")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown catalog source %q", c.Catalog.Source))
	}

	switch c.Catalog.FavoritesSource {
	case SourceAPI:
		if c.Recommender.Variant == VariantFavorites && c.Catalog.FavoritesURL == "" {
			problems = append(problems, "SHOP_FAVORITES_URL is required for api favorites source")
		}
	case SourcePostgres:
	default:
		problems = append(problems, fmt.Sprintf("unknown favorites source %q", c.Catalog.FavoritesSource))
	}

	if c.UsesPostgres() {
		if c.Db.User == "" {
			problems = append(problems, "POSTGRES_USER is required")
		}
		if c.Db.Password == "" {
			problems = append(problems, "POSTGRES_PASSWORD is required")
		}
		if c.Db.DBName == "" {
			problems = append(problems, "POSTGRES_DB is required")
		}
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		problems = append(problems, "KAFKA_BROKERS and KAFKA_TOPIC are required when kafka is enabled")
	}

	if c.Minio.Enabled && c.Minio.BucketName == "" {
		problems = append(problems, "BUCKET_NAME is required when minio is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", e.ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}
