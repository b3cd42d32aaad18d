package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	ctopics "github.com/radieske/ev-lab-poc/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui conexões, tópicos, canais, limiares do modelo e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "ev-outrights-service", "ev-match-worker", ...

	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos Kafka (o canal Redis de picks é contrato fixo em pkg/contracts/topics)
	TopicEvents       string
	TopicPredictions  string
	KafkaGroupID      string
	KafkaEnsureTopics bool // cria tópicos no startup (só faz sentido em local/dev)

	// Modelo
	PrioritiesFile string  // YAML opcional com a tabela de prioridades de outrights
	AlertMinEV     float64 // corte de EV para considerar um pick "alto"

	// Alertas Telegram (desabilitados quando o token está vazio)
	TelegramToken  string
	TelegramChatID int64

	// Simulador de eventos
	SimIntervalMS int // intervalo entre lotes
	SimBatchMax   int // máximo de eventos por lote

	// Portas do serviço atual
	HTTPPort    string // Porta pública (ex.: API REST)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega variáveis de ambiente e define defaults para cada serviço
// Resolve portas e tópicos conforme o SERVICE_NAME
func Load() Config {
	// .env é cortesia para ambiente local; ausência não é erro
	_ = godotenv.Load()

	svc := getEnv("SERVICE_NAME", "")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicEvents:       getEnv("KAFKA_TOPIC_EVENTS", ctopics.EvEvents),
		TopicPredictions:  getEnv("KAFKA_TOPIC_PREDICTIONS", ctopics.EvPredictions),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "ev-match-worker"),
		KafkaEnsureTopics: getEnvBool("KAFKA_ENSURE_TOPICS", env == "local" || env == "dev"),

		PrioritiesFile: getEnv("EV_PRIORITIES_FILE", ""),
		AlertMinEV:     getEnvFloat("EV_ALERT_MIN_EV", 0.04),

		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),

		SimIntervalMS: getEnvInt("SIM_INTERVAL_MS", 3000),
		SimBatchMax:   getEnvInt("SIM_BATCH_MAX", 4),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "ev-outrights-service":
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	case "ev-match-worker":
		cfg.HTTPPort = getEnv("HTTP_PORT_WORKER", "") // worker não expõe HTTP público
		cfg.MetricsPort = getEnv("METRICS_PORT_WORKER", "9097")
	case "event-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_SIM", "")
		cfg.MetricsPort = getEnv("METRICS_PORT_SIM", "9094")
	case "ev-batch":
		cfg.HTTPPort = ""
		cfg.MetricsPort = "" // CLI não sobe servidor nenhum
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
