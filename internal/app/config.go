package app

import (
	"time"

	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
	"github.com/sahayhealth/sahay-backend/internal/utils"
)

type Config struct {
	Port    string
	LogMode string

	// TopK is how many indexed items the retriever fetches per query.
	TopK int
	// RewriteEnabled gates the standalone-question rewrite step.
	RewriteEnabled bool

	HistoryTTL      time.Duration
	HistoryMaxConvs int

	// ArchivePath is the sqlite transcript archive file. Empty disables
	// archiving.
	ArchivePath string
}

func LoadConfig(log *logger.Logger) Config {
	ttlMinutes := utils.GetEnvAsInt("HISTORY_TTL_MINUTES", 720, log)
	return Config{
		Port:            utils.GetEnv("PORT", "3000", log),
		LogMode:         utils.GetEnv("LOG_MODE", "development", log),
		TopK:            utils.GetEnvAsInt("CHAT_TOP_K", 10, log),
		RewriteEnabled:  utils.GetEnvAsBool("CHAT_REWRITE_ENABLED", true, log),
		HistoryTTL:      time.Duration(ttlMinutes) * time.Minute,
		HistoryMaxConvs: utils.GetEnvAsInt("HISTORY_MAX_CONVERSATIONS", 10000, log),
		ArchivePath:     utils.GetEnv("CHAT_ARCHIVE_PATH", "", log),
	}
}
