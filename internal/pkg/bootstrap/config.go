package bootstrap

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config 是整个进程的静态配置，从 YAML 文件加载，
// 个别字段允许环境变量覆盖（容器部署时更方便）。
type Config struct {
	Infra InfraConfig `yaml:"infra"`
}

type InfraConfig struct {
	Mysql     MysqlConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	Nacos     NacosConfig     `yaml:"nacos"`
}

type MysqlConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

type KafkaConfig struct {
	Brokers   []string `yaml:"brokers"`
	SaleTopic string   `yaml:"sale_topic"`
	Enabled   bool     `yaml:"enabled"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ZookeeperConfig struct {
	Servers []string `yaml:"servers"`
	Enabled bool     `yaml:"enabled"`
}

type NacosConfig struct {
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
	Enabled     bool   `yaml:"enabled"`
}

var (
	currentConfig Config
	configOnce    sync.Once
)

// Init 加载配置，进程启动时调用一次。
// 配置文件路径来自 CONFIG_FILE，默认 config.yaml；文件不存在时
// 使用内置默认值，保证本地开发零配置可跑。
func Init() {
	configOnce.Do(func() {
		currentConfig = defaultConfig()

		path := getEnv("CONFIG_FILE", "config.yaml")
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
		} else if err := yaml.Unmarshal(raw, &currentConfig); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("invalid config file")
		}

		applyEnvOverrides(&currentConfig)
	})
}

// GetCurrentConfig 返回进程配置，Init 之后任何时刻可读。
func GetCurrentConfig() Config {
	return currentConfig
}

func defaultConfig() Config {
	return Config{
		Infra: InfraConfig{
			Mysql: MysqlConfig{
				User:     "root",
				Password: "root",
				Addr:     "localhost:3306",
				Database: "merx",
			},
			Redis:  RedisConfig{Addr: "localhost:6379"},
			Kafka:  KafkaConfig{Brokers: []string{"localhost:9092"}, SaleTopic: "sales.completed"},
			Jaeger: JaegerConfig{Endpoint: "http://localhost:14268/api/traces"},
			Nacos:  NacosConfig{ServerAddrs: "localhost:8848", Group: "DEFAULT_GROUP"},
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.Infra.Mysql.User = getEnv("MYSQL_USER", cfg.Infra.Mysql.User)
	cfg.Infra.Mysql.Password = getEnv("MYSQL_PASSWORD", cfg.Infra.Mysql.Password)
	cfg.Infra.Mysql.Addr = getEnv("MYSQL_ADDR", cfg.Infra.Mysql.Addr)
	cfg.Infra.Mysql.Database = getEnv("MYSQL_DATABASE", cfg.Infra.Mysql.Database)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
