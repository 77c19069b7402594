package main

import (
	"fmt"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/dsn"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Печатает заявки и число записей журнала по каждой
func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Check your .env file")
	}
	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}

	var requests []ds.ServiceRequest
	if err = db.Order("id").Find(&requests).Error; err != nil {
		logrus.Fatal("Failed to get service requests: ", err)
	}

	fmt.Println("Service requests in database:")
	for _, r := range requests {
		var records int64
		if err := db.Model(&ds.Record{}).Where("request_id = ?", r.ID).Count(&records).Error; err != nil {
			logrus.Fatal("Failed to count records: ", err)
		}

		quote := "NULL"
		if r.ManagerQuote != nil {
			quote = fmt.Sprintf("%.2f", *r.ManagerQuote)
		}
		fmt.Printf("ID: %d, Client: %d, Type: %s, State: %s, Quote: %s, Photos: %d, Records: %d\n",
			r.ID, r.ClientID, r.ServiceType, r.State, quote, len(r.Photos), records)
	}
}
