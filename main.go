package main

import (
	"os"

	"insynchub/connection"

	"github.com/gin-gonic/gin"
)

func main() {
	if os.Getenv("APP_ENV") != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	connection.StartServer()
}
