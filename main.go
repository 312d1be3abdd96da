package main

import (
	"github.com/LumosAcademy/payment_service/config"
	"github.com/LumosAcademy/payment_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
