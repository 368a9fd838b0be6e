package main

import (
	"github.com/storelane/order-svc/internal/app"
	"github.com/storelane/order-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
