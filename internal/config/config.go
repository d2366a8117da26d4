package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	// CronSpec 定时巡检采集的周期
	CronSpec string

	// 采集相关
	NewsBaseURL      string
	FetchTimeout     time.Duration
	FetchMode        string // http / browser
	FetchConcurrency int
	DefaultMaxPages  int
	DefaultMaxNews   int
	UserAgent        string

	// 全站 Basic Auth，均非空时启用
	BasicAuthUser string
	BasicAuthPass string
}

func Load() *Config {
	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "9000"),
		PostgresDSN:      getEnv("POSTGRES_DSN", "host=localhost user=indexnews password=indexnews dbname=indexnews port=5432 sslmode=disable TimeZone=Asia/Jakarta"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6380"),
		CronSpec:         getEnv("CRON_SPEC", "0 */6 * * *"),
		NewsBaseURL:      getEnv("NEWS_BASE_URL", "https://www.cnbcindonesia.com/news/indeks/3"),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchMode:        getEnv("FETCH_MODE", "http"),
		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 1),
		DefaultMaxPages:  getEnvInt("DEFAULT_MAX_PAGES", 1),
		DefaultMaxNews:   getEnvInt("DEFAULT_MAX_NEWS", 5),
		UserAgent:        getEnv("USER_AGENT", "IndexNewsHubBot/1.0"),
		BasicAuthUser:    getEnv("APP_BASIC_USER", ""),
		BasicAuthPass:    getEnv("APP_BASIC_PASS", ""),
	}

	log.Printf("config loaded: port=%s cron=%s fetch=%s timeout=%s concurrency=%d",
		cfg.AppPort, cfg.CronSpec, cfg.FetchMode, cfg.FetchTimeout, cfg.FetchConcurrency)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt 非法或非正数时回退到默认值
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warn: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warn: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
