package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	Port              string
	DatabaseURL       string
	SQLitePath        string
	LogFile           string
	TemplatesDir      string
	AdminUsername     string
	AdminPasswordHash string
	AdminPassword     string
	DraftTTL          time.Duration
	KafkaBrokers      string
	KafkaTopic        string
	BotSecret         string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "orders_backup.db"
	} // fallback tier file in the working directory
	logFile, ok := os.LookupEnv("LOG_FILE")
	if !ok {
		logFile = "./orderly.log"
	}
	templates := os.Getenv("TEMPLATES_DIR")
	if templates == "" {
		templates = "./web/templates"
	}
	adminUser := os.Getenv("ADMIN_USERNAME")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminHash == "" && adminPass == "" {
		adminPass = "admin123"
		log.Printf("[config] ADMIN_PASSWORD not set, using the default password; change it before going live")
	}
	ttl := 30 * time.Minute
	if v := os.Getenv("DRAFT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		} else {
			log.Printf("[config] ignoring DRAFT_TTL=%q: not a positive duration", v)
		}
	}
	botSecret := os.Getenv("BOT_SECRET")
	if botSecret == "" {
		log.Printf("[config] BOT_SECRET not set, /bot/events will reject every call")
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "orderly.orders"
	}

	cfg := Config{
		Port:              port,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        sqlitePath,
		LogFile:           logFile,
		TemplatesDir:      templates,
		AdminUsername:     adminUser,
		AdminPasswordHash: adminHash,
		AdminPassword:     adminPass,
		DraftTTL:          ttl,
		KafkaBrokers:      os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:        topic,
		BotSecret:         botSecret,
	}
	log.Printf("[config] PORT=%s DATABASE_URL set=%t SQLITE_PATH=%s LOG_FILE=%s DRAFT_TTL=%s KAFKA_BROKERS=%s",
		cfg.Port, cfg.DatabaseURL != "", cfg.SQLitePath, cfg.LogFile, cfg.DraftTTL, cfg.KafkaBrokers)
	return cfg
}
