package main

import (
	"context"
	"errors"
	"os"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/dsn"
	"cleaning-backend/internal/app/repository"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// Менеджеры не регистрируются через API, учётная запись создаётся этой утилитой
func main() {
	username := flag.StringP("username", "u", "", "manager login")
	password := flag.StringP("password", "p", "", "manager password (or ADMIN_PASSWORD)")
	fullName := flag.String("full-name", "", "name shown to clients")
	flag.Parse()

	_ = godotenv.Load()
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *username == "" || len(*password) < 6 {
		flag.Usage()
		logrus.Fatal("username and password (at least 6 characters) are required")
	}

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}
	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("Failed to hash password: %v", err)
	}

	admin := &ds.Admin{Username: *username, FullName: *fullName, PasswordHash: string(hash)}
	if err := repo.CreateAdmin(context.Background(), admin); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			logrus.Fatalf("Manager %q already exists", *username)
		}
		logrus.Fatalf("Failed to create manager: %v", err)
	}

	logrus.Infof("Manager %q created with id %d", admin.Username, admin.ID)
}
