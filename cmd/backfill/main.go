package main

import (
	"flag"
	"log"
	"os"

	"github.com/unscripted/unscripted-server/config"
	"github.com/unscripted/unscripted-server/internal/database"
	"github.com/unscripted/unscripted-server/internal/repository"
	"github.com/unscripted/unscripted-server/internal/service"
)

var dryRun = flag.Bool("dry-run", true, "Report drift without fixing balances")

// 对账工具：以积分流水为准重算余额，修复 users.points 的漂移。
func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	pointsService := service.NewPointsService(db)

	userIDs, err := userRepo.ListIDs()
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	log.Printf("Checking %d users (dry-run=%v)", len(userIDs), *dryRun)

	drifted := 0
	fixed := 0
	for _, userID := range userIDs {
		user, err := userRepo.GetByID(userID)
		if err != nil {
			log.Printf("User %d: failed to load: %v", userID, err)
			continue
		}

		computed, err := pointsService.RecomputeBalance(userID)
		if err != nil {
			log.Printf("User %d: failed to recompute: %v", userID, err)
			continue
		}

		if computed == user.Points {
			continue
		}

		drifted++
		log.Printf("User %d: stored=%d ledger=%d drift=%d",
			userID, user.Points, computed, user.Points-computed)

		if *dryRun {
			continue
		}

		user.Points = computed
		if err := userRepo.Update(user); err != nil {
			log.Printf("User %d: failed to fix: %v", userID, err)
			continue
		}
		fixed++
	}

	log.Printf("Done: %d drifted, %d fixed", drifted, fixed)
	if *dryRun && drifted > 0 {
		log.Println("Run with -dry-run=false to fix balances")
	}
}
