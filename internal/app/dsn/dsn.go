package dsn

import (
	"fmt"
	"os"
)

// FromEnv собирает строку подключения к postgres из переменных окружения.
// DB_DSN, если задана, используется как есть
func FromEnv() string {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return dsn
	}

	host, ok := os.LookupEnv("DB_HOST")
	if !ok {
		return ""
	}
	port, ok := os.LookupEnv("DB_PORT")
	if !ok {
		return ""
	}
	user, ok := os.LookupEnv("DB_USER")
	if !ok {
		return ""
	}
	pass, ok := os.LookupEnv("DB_PASS")
	if !ok {
		return ""
	}
	dbname, ok := os.LookupEnv("DB_NAME")
	if !ok {
		return ""
	}

	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", host, port, user, pass, dbname, sslmode)
}
