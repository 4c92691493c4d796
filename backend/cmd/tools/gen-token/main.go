package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard-dev/taskboard/shared/config"
	"github.com/taskboard-dev/taskboard/shared/jwt"
	shared_storage "github.com/taskboard-dev/taskboard/shared/storage"
)

// gen-token issues a session token for local development. Real deployments get
// tokens from the identity provider.
func main() {
	var (
		configFolder string
		userFlag     string
		team         bool
	)
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.StringVar(&userFlag, "user", "", "user id (a new one is generated when empty)")
	flag.BoolVar(&team, "team", false, "also enroll the user in the team")
	flag.Parse()

	cfg := config.MustLoad(configFolder)

	userId := uuid.New()
	if userFlag != "" {
		parsed, err := uuid.Parse(userFlag)
		if err != nil {
			log.Fatalf("Invalid -user: %v", err)
		}
		userId = parsed
	}

	if team {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		storage, err := shared_storage.New(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect: %v", err)
		}
		defer storage.Cleanup()
		if err := storage.AddTeamMember(ctx, userId); err != nil {
			log.Fatalf("Failed to enroll team member: %v", err)
		}
	}

	token, expiresAt, err := jwt.New(cfg.JwtKey(), cfg.SessionTTL()).NewToken(userId, uuid.New())
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println("user:   ", userId)
	fmt.Println("team:   ", team)
	fmt.Println("expires:", expiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Use it as a cookie (accessToken=...) or an Authorization: Bearer header.")
}
