package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	DB      DBConfig
	Store   StoreConfig
	Broker  BrokerConfig
	Restock RestockConfig
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selecciona el backing store de los repositorios.
type StoreConfig struct {
	Driver string // memory | postgres
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// BrokerConfig configuración del broker de colas (AMQP). URL vacía significa
// variante de un solo proceso: despacho directo sin broker.
type BrokerConfig struct {
	URL            string
	Exchange       string        // exchange direct para reposición
	Queue          string        // cola durable del servicio de órdenes
	BindingKeys    []string      // routing keys que consume el servicio de órdenes
	PublishTimeout time.Duration // intento acotado de publicación
}

// Enabled indica si hay broker configurado.
func (c BrokerConfig) Enabled() bool { return c.URL != "" }

// RestockConfig parámetros del disparador de reposición.
type RestockConfig struct {
	Threshold     int           // por debajo de este stock se pide reposición
	Quantity      int           // cantidad fija por solicitud
	DrainInterval time.Duration // período del drainer de outbox
	DrainBatch    int
	MaxAttempts   int
}

// MetricsConfig servidor lateral de métricas/health.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, BROKER_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "stocknet"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Driver: getString(v, "STORE_DRIVER", "memory"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "stocknet"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Broker: BrokerConfig{
			URL:            getString(v, "BROKER_URL", ""),
			Exchange:       getString(v, "BROKER_EXCHANGE", "stocknet.restock"),
			Queue:          getString(v, "BROKER_QUEUE", "stocknet.orders"),
			BindingKeys:    splitKeys(getString(v, "BROKER_BINDING_KEYS", "restock.normal,restock.critical")),
			PublishTimeout: getDuration(v, "BROKER_PUBLISH_TIMEOUT", 5*time.Second),
		},
		Restock: RestockConfig{
			Threshold:     getInt(v, "RESTOCK_THRESHOLD", 100),
			Quantity:      getInt(v, "RESTOCK_QUANTITY", 100),
			DrainInterval: getDuration(v, "RESTOCK_DRAIN_INTERVAL", 2*time.Second),
			DrainBatch:    getInt(v, "RESTOCK_DRAIN_BATCH", 50),
			MaxAttempts:   getInt(v, "RESTOCK_MAX_ATTEMPTS", 10),
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "METRICS_ENABLED", true),
			Addr:    getString(v, "METRICS_ADDR", ":9091"),
		},
	}

	if cfg.Store.Driver != "memory" && cfg.Store.Driver != "postgres" {
		return nil, fmt.Errorf("STORE_DRIVER inválido: %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func splitKeys(s string) []string {
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d, err := time.ParseDuration(v.GetString(key)); err == nil {
			return d
		}
	}
	return def
}
