// Command main runs the database seeder for Quorum.
package main

import (
	"flag"
	"log"

	"quorum/internal/cache"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numQuestions := flag.Int("questions", defaults.NumQuestions, "Number of questions to create")
	answerRatio := flag.Float64("answer-ratio", defaults.AnswerRatio, "Chance that a user answers a question")
	voteRatio := flag.Float64("vote-ratio", defaults.VoteRatio, "Chance that a user votes on a question or answer")
	maxDays := flag.Int("max-days", defaults.MaxDays, "Spread created_at over this many past days")
	shouldClean := flag.Bool("clean", defaults.ShouldClean, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	opts := defaults
	opts.NumUsers = *numUsers
	opts.NumQuestions = *numQuestions
	opts.AnswerRatio = *answerRatio
	opts.VoteRatio = *voteRatio
	opts.MaxDays = *maxDays
	opts.ShouldClean = *shouldClean
	opts.DryRun = *dryRun

	if opts.DryRun {
		if _, err := seed.Seed(nil, opts); err != nil {
			log.Fatalf("❌ Dry run failed: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// cached rankings are dropped after seeding when Redis is reachable
	cache.InitRedis(cfg.RedisURL)

	summary, err := seed.Seed(db, opts)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! Created %s", summary)
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
