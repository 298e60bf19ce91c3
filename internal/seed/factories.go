// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quorum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of every seeded user.
const DefaultPassword = "password123"

// Options tune what Seed and Factory produce.
type Options struct {
	NumUsers     int
	NumQuestions int
	// AnswerRatio is the chance that a given user answers a given question.
	AnswerRatio float64
	// VoteRatio is the chance that a given user votes on a given target.
	VoteRatio   float64
	PrivateRate float64
	// MaxDays bounds how far back created_at timestamps are spread.
	MaxDays     int
	ShouldClean bool
	// DryRun logs what would be created without touching the database.
	DryRun bool
	// SkipBcrypt stores a cheap hash, for tests where bcrypt cost matters.
	SkipBcrypt bool
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
	hash string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
// db may be nil when opts.DryRun is set.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:   db,
		opts: opts,
		// #nosec G404: acceptable for seeding
		rnd:    rand.New(rand.NewSource(seed)),
		nextID: 1000,
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	f.hash = string(hashed)
	return f.hash, nil
}

func (f *Factory) id() uint {
	f.nextID++
	return f.nextID
}

// createdAt returns a timestamp within the last MaxDays days.
func (f *Factory) createdAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rnd.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rnd.Intn(24))*time.Hour +
		time.Duration(f.rnd.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) visibility() models.Visibility {
	if f.rnd.Float64() < f.opts.PrivateRate {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

// CreateUser constructs and persists a sample user with a profile city.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	first, last := gofakeit.FirstName(), gofakeit.LastName()
	username := strings.ToLower(fmt.Sprintf("%s.%s%d", first, last, f.id()))
	city := gofakeit.City()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  hash,
		FirstName: first,
		LastName:  last,
		IsActive:  true,
		Profile:   &models.UserProfile{City: &city},
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = f.id()
		if user.Profile != nil {
			user.Profile.UserID = user.ID
		}
		log.Printf("[dry-run] CreateUser: username=%s", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateQuestion constructs and persists a sample question asked by user.
func (f *Factory) CreateQuestion(user *models.User, overrides ...func(*models.Question)) (*models.Question, error) {
	at := f.createdAt()
	title := strings.TrimSuffix(gofakeit.Question(), "?") + "?"
	question := &models.Question{
		UserID:      user.ID,
		Title:       title,
		Description: gofakeit.Paragraph(1, 3, 12, "\n"),
		Visibility:  f.visibility(),
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if f.rnd.Float64() < 0.3 {
		question.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(question)
	}

	if f.opts.DryRun {
		question.ID = f.id()
		log.Printf("[dry-run] CreateQuestion: user=%d title=%q", question.UserID, question.Title)
		return question, nil
	}

	if err := f.db.Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

// CreateAnswer constructs and persists a sample answer by user on question.
// The answer is never dated before its question.
func (f *Factory) CreateAnswer(user *models.User, question *models.Question, overrides ...func(*models.Answer)) (*models.Answer, error) {
	at := question.CreatedAt
	if since := time.Since(at); since > time.Minute {
		at = at.Add(time.Duration(f.rnd.Int63n(int64(since))))
	}
	answer := &models.Answer{
		UserID:     user.ID,
		QuestionID: question.ID,
		Text:       gofakeit.Paragraph(1, 2, 10, "\n"),
		Visibility: f.visibility(),
		Rating:     gofakeit.Number(models.MinRating, models.MaxRating),
		CreatedAt:  at,
		UpdatedAt:  at,
	}

	for _, override := range overrides {
		override(answer)
	}

	if f.opts.DryRun {
		answer.ID = f.id()
		log.Printf("[dry-run] CreateAnswer: user=%d question=%d rating=%d", answer.UserID, answer.QuestionID, answer.Rating)
		return answer, nil
	}

	if err := f.db.Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

// CreateVote persists a vote from user on target.
func (f *Factory) CreateVote(user *models.User, target models.VoteTarget) (*models.Vote, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	vote := target.NewVote(user.ID)

	if f.opts.DryRun {
		vote.ID = f.id()
		log.Printf("[dry-run] CreateVote: user=%d %s=%d", user.ID, target.Kind, target.ID)
		return vote, nil
	}

	if err := f.db.Create(vote).Error; err != nil {
		return nil, err
	}
	return vote, nil
}
