package main

import (
	"cleaning-backend/internal/api"

	_ "cleaning-backend/docs"

	"github.com/sirupsen/logrus"
)

// @title Cleaning Service API
// @version 1.0
// @description Заявки на уборку: оценка стоимости, согласование цены, оплата и спор по счёту
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	logrus.Info("App start")
	if err := api.StartServer(); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("App terminated")
}
