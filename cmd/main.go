package main

import (
	"github.com/corray333/backend-labs/dukan/internal/app"
	"github.com/corray333/backend-labs/dukan/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
