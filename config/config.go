package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// DynamoConfig points the primary store at DynamoDB. Endpoint is only set
// for local development against dynamodb-local.
type DynamoConfig struct {
	Region   string            `yaml:"region" json:"region"`
	Endpoint string            `yaml:"endpoint" json:"endpoint"`
	Tables   map[string]string `yaml:"tables" json:"tables"`
}

// Table returns the table name configured for a resource, defaulting to the
// resource name itself.
func (c DynamoConfig) Table(resource string) string {
	if t, ok := c.Tables[resource]; ok && t != "" {
		return t
	}
	return resource
}

type RedisConfig struct {
	Addr       string `yaml:"addr" json:"addr"`
	Password   string `yaml:"password" json:"password"`
	DB         int    `yaml:"db" json:"db"`
	TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// TTL is the cache-entry safety-net lifetime.
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type S3Config struct {
	Region    string `yaml:"region" json:"region"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`
	PublicURL string `yaml:"public_url" json:"public_url"`
}

// ScheduleConfig controls the background cache reconcile sweep.
type ScheduleConfig struct {
	ReconcileEnable bool   `yaml:"reconcile_enable" json:"reconcile_enable"`
	ReconcileCron   string `yaml:"reconcile_cron" json:"reconcile_cron"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Dynamo   DynamoConfig   `yaml:"dynamo" json:"dynamo"`
	Redis    RedisConfig    `yaml:"redis" json:"redis"`
	S3       S3Config       `yaml:"s3" json:"s3"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Catalog",
		Location: "Asia/Shanghai",
		Workdir:  "/var/catalog",
		Debug:    true,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/catalog/catalog.log",
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1980,
	},
	Dynamo: DynamoConfig{
		Region: "us-east-1",
		Tables: map[string]string{
			"products":   "products",
			"banners":    "banners",
			"categories": "category",
		},
	},
	Redis: RedisConfig{
		Addr:       "127.0.0.1:6379",
		DB:         0,
		TTLSeconds: 3600,
	},
	S3: S3Config{
		Region:    "us-east-1",
		Bucket:    "catalog-images",
		KeyPrefix: "uploads",
	},
	Schedule: ScheduleConfig{
		ReconcileEnable: false,
		ReconcileCron:   "@every 10m",
	},
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

// LoadConfig reads the YAML config file and applies environment overrides
// for connection secrets. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("CATALOG_WEB_HOST", &cfg.Web.Host)
	setEnvValue("CATALOG_DYNAMO_REGION", &cfg.Dynamo.Region)
	setEnvValue("CATALOG_DYNAMO_ENDPOINT", &cfg.Dynamo.Endpoint)
	setEnvValue("CATALOG_REDIS_ADDR", &cfg.Redis.Addr)
	setEnvValue("CATALOG_REDIS_PASSWORD", &cfg.Redis.Password)
	setEnvValue("CATALOG_S3_BUCKET", &cfg.S3.Bucket)
	setEnvValue("CATALOG_S3_PUBLIC_URL", &cfg.S3.PublicURL)

	if cfg.Redis.TTLSeconds <= 0 {
		cfg.Redis.TTLSeconds = 3600
	}
	return cfg
}
