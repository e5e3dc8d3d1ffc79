package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ListenAddr string

	// Kafka
	KafkaBrokers   string
	ChatTopic      string
	EmailTopic     string
	ConsumerGroup  string
	StartConsumers bool

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Directory for generated receipts and report exports
	ExportDir string
}

var AppConfig Config

func LoadConfig() {
	// Try loading .env from different locations
	envLocations := []string{
		".env",              // project root
		"config/.env",       // config subdirectory
		"../config/.env",    // one level up
		"../../config/.env", // two levels up
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = Config{
		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: getEnvWithDefault("DB_PASSWORD", "postgres"),
		DBName:     getEnvWithDefault("DB_NAME", "classroom"),

		ListenAddr: getEnvWithDefault("LISTEN_ADDR", ":8080"),

		// Kafka settings (comma-separated brokers)
		KafkaBrokers:   getEnvWithDefault("KAFKA_BROKERS", "127.0.0.1:9092"),
		ChatTopic:      getEnvWithDefault("CHAT_TOPIC", "classroom.chat"),
		EmailTopic:     getEnvWithDefault("EMAIL_TOPIC", "classroom.emails"),
		ConsumerGroup:  getEnvWithDefault("CONSUMER_GROUP", "classroom-module-consumer-group"),
		StartConsumers: getEnvWithDefault("START_CONSUMERS", "true") == "true",

		SMTPHost:  getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvWithDefault("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		ExportDir: getEnvWithDefault("EXPORT_DIR", "exports"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDBConnString() string {
	return "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=disable"
}
