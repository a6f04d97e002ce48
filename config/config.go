package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	DefaultServerAddr       = ":8080"
	DefaultMongoDatabase    = "chatsession"
	DefaultModelName        = "gemini-2.5-flash"
	DefaultMaxTokens        = 2000
	DefaultSummaryMaxTokens = 200
	DefaultEventsTopic      = "chat-session.events"
	DefaultEventsPartitions = 3
	DefaultTemperature      = 0.3
	DefaultTopP             = 0.5
)

type AppConfig struct {
	Logging         LoggingConfig         `yaml:"logging"`
	Server          ServerConfig          `yaml:"server"`
	Mongo           MongoConfig           `yaml:"mongo"`
	Store           StoreConfig           `yaml:"store"`
	LLM             LLMConfig             `yaml:"llm"`
	CompletionQuota CompletionQuotaConfig `yaml:"completion_quota"`
	Events          EventsConfig          `yaml:"events"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MongoConfig 의 URI 는 MONGO_URI 환경변수가 있으면 그 값으로 덮어쓴다.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`

	// UseTransactions 가 true 이면 세션 삭제와 메시지 배치 upsert 를
	// 멀티 도큐먼트 트랜잭션으로 묶는다. replica set 에서만 동작한다.
	UseTransactions bool `yaml:"use_transactions"`
}

// StoreConfig selects the persistence backend: "mongo" (default) or "memory".
type StoreConfig struct {
	Backend string `yaml:"backend"`
}

// LLMConfig 는 대화 응답과 세션 이름 요약에 사용하는 모델 설정이다.
type LLMConfig struct {
	// Provider 는 "google" 또는 "echo"(오프라인 개발용) 중 하나다.
	Provider  string `yaml:"provider"`
	ModelName string `yaml:"model_name"`

	// MaxTokens 는 응답 최대 토큰 수이며, 대화 윈도우 예산(MaxTokens/2 문자)의 기준이 된다.
	MaxTokens int `yaml:"max_tokens"`
	// Temperature, TopP 는 키가 없을 때만 기본값을 쓴다. 0 도 유효한 값이다.
	Temperature      *float32 `yaml:"temperature"`
	TopP             *float32 `yaml:"top_p"`
	SummaryMaxTokens int      `yaml:"summary_max_tokens"`
}

// CompletionQuotaConfig 는 LLM 호출에 대한 속도/일일 한도를 정의한다.
type CompletionQuotaConfig struct {
	// 0 이하면 제한 없음으로 간주한다.
	RequestsPerMinute int `yaml:"requests_per_minute"`
	RequestsPerDay    int `yaml:"requests_per_day"`
}

type EventsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Topic      string `yaml:"topic"`
	Partitions int    `yaml:"partitions"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	config = c
}

// Parse decodes a config.yaml document, applies environment overrides and fills defaults.
func Parse(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Mongo.URI = uri
	}
	c.applyDefaults()
	return &c, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = DefaultMongoDatabase
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "mongo"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "google"
	}
	if c.LLM.ModelName == "" {
		c.LLM.ModelName = DefaultModelName
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.LLM.Temperature == nil {
		c.LLM.Temperature = float32Ptr(DefaultTemperature)
	}
	if c.LLM.TopP == nil {
		c.LLM.TopP = float32Ptr(DefaultTopP)
	}
	if c.LLM.SummaryMaxTokens <= 0 {
		c.LLM.SummaryMaxTokens = DefaultSummaryMaxTokens
	}
	if c.Events.Topic == "" {
		c.Events.Topic = DefaultEventsTopic
	}
	if c.Events.Partitions <= 0 {
		c.Events.Partitions = DefaultEventsPartitions
	}
}

func float32Ptr(v float32) *float32 { return &v }

// Set replaces the process-wide configuration returned by GetConfig.
func Set(c *AppConfig) {
	config = c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
