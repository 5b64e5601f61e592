package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Pipeline Pipeline
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	FeedbackTopic      string
	ChatRateLimit      int
	ChatRateWindow     time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "jina"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
	JinaAPIKey        string
	HuggingFaceAPIKey string
}

// Pipeline collects every threshold the query pipeline depends on. It is
// built once at startup and passed into each stage at construction; no
// stage reads ambient state for a cutoff.
type Pipeline struct {
	MinScore            float64       // retrieval similarity floor
	TopK                int           // retrieval cap across all variants
	MaxVariants         int           // rewriter output cap, original included
	DiversityK          int           // MMR selection size
	DiversityWeight     float64       // MMR lambda
	RerankShortlist     int           // passages kept after reranking
	ConfidenceThreshold float64       // quality gate warn floor on max score
	MinContextWords     int           // quality gate warn floor on pack words
	WordBudget          int           // composer answer cap
	CitationCap         int           // composer citation cap
	GarbageMinWords     int           // filter: fragment floor
	GarbageMaxWords     int           // filter: table-dump ceiling
	AcronymRatio        float64       // filter: uppercase token dominance
	EnumerationCeiling  int           // filter: list item cap
	SearchTimeout       time.Duration
	RerankTimeout       time.Duration
	GenerateTimeout     time.Duration
}

// DefaultPipeline returns the production thresholds. Values are policy
// constants, not architecture; tune via env overrides in Load.
func DefaultPipeline() Pipeline {
	return Pipeline{
		MinScore:            0.30,
		TopK:                12,
		MaxVariants:         5,
		DiversityK:          8,
		DiversityWeight:     0.7,
		RerankShortlist:     5,
		ConfidenceThreshold: 0.45,
		MinContextWords:     40,
		WordBudget:          120,
		CitationCap:         3,
		GarbageMinWords:     8,
		GarbageMaxWords:     220,
		AcronymRatio:        0.40,
		EnumerationCeiling:  12,
		SearchTimeout:       8 * time.Second,
		RerankTimeout:       6 * time.Second,
		GenerateTimeout:     60 * time.Second,
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	pipeline := DefaultPipeline()
	pipeline.MinScore = getEnvAsFloat("PIPELINE_MIN_SCORE", pipeline.MinScore)
	pipeline.TopK = getEnvAsInt("PIPELINE_TOP_K", pipeline.TopK)
	pipeline.ConfidenceThreshold = getEnvAsFloat("PIPELINE_CONFIDENCE_THRESHOLD", pipeline.ConfidenceThreshold)
	pipeline.MinContextWords = getEnvAsInt("PIPELINE_MIN_CONTEXT_WORDS", pipeline.MinContextWords)
	pipeline.WordBudget = getEnvAsInt("PIPELINE_WORD_BUDGET", pipeline.WordBudget)
	pipeline.CitationCap = getEnvAsInt("PIPELINE_CITATION_CAP", pipeline.CitationCap)

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			FeedbackTopic:      getEnv("MESSAGE_FEEDBACK_TOPIC_NAME", "MESSAGE_FEEDBACK"),
			ChatRateLimit:      getEnvAsInt("CHAT_RATE_LIMIT", 20),
			ChatRateWindow:     time.Duration(getEnvAsInt("CHAT_RATE_WINDOW_SECONDS", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			JinaAPIKey:        getEnv("JINA_API_KEY", ""),
			HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Pipeline: pipeline,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
