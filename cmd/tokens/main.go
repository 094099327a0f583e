package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/app"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		course     = flag.String("course", "", "Course the token is scoped to")
		client     = flag.String("client", "", "Client id sent in the client id header")
		revoke     = flag.Bool("revoke", false, "Delete the token instead of issuing it")
	)
	flag.Parse()

	if *course == "" || *client == "" {
		logger.Error.Fatalf("Both -course and -client are required")
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.RedisURL == "" {
		logger.Error.Fatalf("auth.redis_url is empty")
	}

	rdb, err := app.NewRedisClient(cfg.Auth.RedisURL)
	if err != nil {
		logger.Error.Fatalf("Failed to connect to redis: %v", err)
	}
	tm := app.NewTokenManager(rdb, cfg.Auth.TokenKeyTemplate)
	defer tm.Close()

	ctx := context.Background()
	if *revoke {
		if err := tm.RevokeClientToken(ctx, *course, *client); err != nil {
			logger.Error.Fatalf("%v", err)
		}
		logger.Info.Printf("Revoked token for %s/%s", *course, *client)
		return
	}

	token, created, err := tm.FetchOrCreateClientToken(ctx, *course, *client)
	if err != nil {
		logger.Error.Fatalf("%v", err)
	}
	if created {
		logger.Info.Printf("Issued new token for %s/%s", *course, *client)
	} else {
		logger.Info.Printf("Token for %s/%s already existed, issued %d times since %s",
			*course, *client, token.RequestCount, token.CreatedTime.Format("2006-01-02"))
	}
	fmt.Println(token.Token)
}
