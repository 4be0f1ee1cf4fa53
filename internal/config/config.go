package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret          string
	JWTExpirationHours time.Duration

	// Giá mặc định (VND/giờ) khi loại xe chưa có biểu giá đang hiệu lực.
	DefaultPricePerHour float64

	// Ngưỡng cảnh báo lượt gửi xe quá hạn và chu kỳ quét.
	OverdueThreshold    time.Duration
	OverdueScanInterval time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Cảnh báo: Không thể tải file .env: %v", err)
	}

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	jwtExpHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	defaultPrice, _ := strconv.ParseFloat(getEnv("DEFAULT_PRICE_PER_HOUR", "10000"), 64)
	overdueHours, _ := strconv.Atoi(getEnv("OVERDUE_THRESHOLD_HOURS", "24"))
	scanMinutes, _ := strconv.Atoi(getEnv("OVERDUE_SCAN_INTERVAL_MINUTES", "5"))

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "parking"),
		DBPassword: getEnv("DB_PASSWORD", "parking"),
		DBName:     getEnv("DB_NAME", "parking_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:          getEnv("JWT_SECRET", "parking-system-secret-!@#$"),
		JWTExpirationHours: time.Duration(jwtExpHours) * time.Hour,

		DefaultPricePerHour: defaultPrice,

		OverdueThreshold:    time.Duration(overdueHours) * time.Hour,
		OverdueScanInterval: time.Duration(scanMinutes) * time.Minute,
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Biến môi trường '%s' không được đặt, sử dụng giá trị mặc định: '%s'", key, fallback)
	return fallback
}
