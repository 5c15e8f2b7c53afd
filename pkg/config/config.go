package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures the full runtime configuration for the CNM responder.
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Kafka   KafkaConfig
	Storage StorageConfig
	Catalog CatalogConfig
	Cleanup CleanupConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"cnm-responder"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"0.1.0"`
	LogLevel    string `env:"APP_LOG_LEVEL" envDefault:"info"`
	// RunOnce makes the consumer handle a single notification and exit,
	// matching the one-shot invocation model of the hosted deployment.
	RunOnce bool `env:"APP_RUN_ONCE" envDefault:"false"`
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
}

type KafkaConfig struct {
	Brokers       []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	ResponseTopic string   `env:"KAFKA_RESPONSE_TOPIC" envDefault:"cnm.response"`
	ConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"cnm-responder"`
	// FailureTopicMatch selects the failure-notification topic by substring
	// among the topics that already exist on the brokers.
	FailureTopicMatch string        `env:"KAFKA_FAILURE_TOPIC_MATCH" envDefault:"batch-job-failure"`
	Retries           int           `env:"KAFKA_RETRIES" envDefault:"3"`
	BatchSize         int           `env:"KAFKA_BATCH_SIZE" envDefault:"1"`
	BatchTimeout      time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"1s"`
	CompressionCodec  string        `env:"KAFKA_COMPRESSION_CODEC" envDefault:"snappy"`
}

type StorageConfig struct {
	Provider  string `env:"STORAGE_PROVIDER" envDefault:"minio"`
	Endpoint  string `env:"STORAGE_ENDPOINT" envDefault:"localhost:9000"`
	Region    string `env:"STORAGE_REGION" envDefault:"us-west-2"`
	AccessKey string `env:"STORAGE_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"STORAGE_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"STORAGE_USE_SSL" envDefault:"false"`
	// BucketSuffix is appended to the event's trace prefix to name the
	// staging bucket, e.g. trace "podaac-ops-cumulus" names the bucket
	// "podaac-ops-cumulus-l2p-granules".
	BucketSuffix string `env:"STORAGE_BUCKET_SUFFIX" envDefault:"-l2p-granules"`
}

type CatalogConfig struct {
	URL     string        `env:"CATALOG_URL" envDefault:"https://cmr.earthdata.nasa.gov/search/granules.umm_json"`
	UATURL  string        `env:"CATALOG_UAT_URL" envDefault:"https://cmr.uat.earthdata.nasa.gov/search/granules.umm_json"`
	Token   string        `env:"CATALOG_BEARER_TOKEN"`
	Timeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"30s"`
}

type CleanupConfig struct {
	OutputMount string `env:"CLEANUP_OUTPUT_MOUNT" envDefault:"/mnt/data"`
	// RemoveOutput can be disabled for deployments without the shared
	// output mount.
	RemoveOutput bool `env:"CLEANUP_REMOVE_OUTPUT" envDefault:"true"`
}

type TracingConfig struct {
	Endpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	Insecure     bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	SampleRatio  float64 `env:"OTEL_TRACES_SAMPLER_RATIO" envDefault:"1.0"`
	ResourceAttr string  `env:"OTEL_RESOURCE_ATTRIBUTES" envDefault:"service.namespace=cnm"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
