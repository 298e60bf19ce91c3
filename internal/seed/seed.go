package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"quorum/internal/cache"
	"quorum/internal/models"

	"gorm.io/gorm"
)

// Summary counts what a Seed run created.
type Summary struct {
	Users     int
	Questions int
	Answers   int
	Votes     int
}

func (s Summary) String() string {
	return fmt.Sprintf("users=%d questions=%d answers=%d votes=%d", s.Users, s.Questions, s.Answers, s.Votes)
}

// DefaultOptions is the preset used by cmd/seed.
func DefaultOptions() Options {
	return Options{
		NumUsers:     25,
		NumQuestions: 80,
		AnswerRatio:  0.15,
		VoteRatio:    0.2,
		PrivateRate:  0.2,
		MaxDays:      90,
		ShouldClean:  true,
	}
}

// Seed populates the database with users, questions, answers and votes.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	if db == nil && !opts.DryRun {
		return nil, fmt.Errorf("seed requires a database unless dry-run is set")
	}
	log.Printf("🌱 Seeding %d users and %d questions (dry-run=%t)...", opts.NumUsers, opts.NumQuestions, opts.DryRun)

	if opts.ShouldClean && !opts.DryRun {
		if err := ClearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db, opts)
	summary := &Summary{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return summary, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, u)
	}
	summary.Users = len(users)
	if len(users) == 0 {
		return summary, nil
	}
	log.Printf("✓ %d users created", summary.Users)

	questions := make([]*models.Question, 0, opts.NumQuestions)
	for i := 0; i < opts.NumQuestions; i++ {
		q, err := f.CreateQuestion(users[f.rnd.Intn(len(users))])
		if err != nil {
			return summary, fmt.Errorf("failed to create question: %w", err)
		}
		questions = append(questions, q)
	}
	summary.Questions = len(questions)
	log.Printf("✓ %d questions created", summary.Questions)

	for _, q := range questions {
		if err := seedQuestionActivity(f, users, q, summary); err != nil {
			return summary, err
		}
	}
	log.Printf("✓ %d answers and %d votes created", summary.Answers, summary.Votes)

	if !opts.DryRun {
		cache.InvalidateTopAskers(context.Background(), time.Now())
	}

	log.Println("🎉 Database seeding completed successfully!")
	return summary, nil
}

// seedQuestionActivity answers and votes on q. Every user answers at most
// once and casts at most one vote per target.
func seedQuestionActivity(f *Factory, users []*models.User, q *models.Question, summary *Summary) error {
	answers := make([]*models.Answer, 0)
	for _, u := range users {
		if u.ID == q.UserID || f.rnd.Float64() >= f.opts.AnswerRatio {
			continue
		}
		a, err := f.CreateAnswer(u, q)
		if err != nil {
			return fmt.Errorf("failed to create answer: %w", err)
		}
		answers = append(answers, a)
	}
	summary.Answers += len(answers)

	for _, u := range users {
		if f.rnd.Float64() < f.opts.VoteRatio {
			if _, err := f.CreateVote(u, models.QuestionTarget(q.ID)); err != nil {
				return fmt.Errorf("failed to create question vote: %w", err)
			}
			summary.Votes++
		}
		for _, a := range answers {
			if f.rnd.Float64() >= f.opts.VoteRatio {
				continue
			}
			if _, err := f.CreateVote(u, models.AnswerTarget(a.ID)); err != nil {
				return fmt.Errorf("failed to create answer vote: %w", err)
			}
			summary.Votes++
		}
	}
	return nil
}

// ClearData removes all seeded content, children first.
func ClearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	return db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Vote{}, &models.Answer{}, &models.Question{}, &models.UserProfile{}, &models.User{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
