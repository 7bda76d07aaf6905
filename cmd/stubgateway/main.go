package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/pharmaintel/internal/stubgateway"
	"github.com/dmitrijs2005/pharmaintel/internal/stubgateway/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := stubgateway.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
