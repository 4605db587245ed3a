// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"bailanysta/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var hashtags = []string{
	"almaty", "astana", "kazakh", "steppe", "golang", "coffee",
	"music", "travel", "food", "books", "mountains", "bailanysta",
}

// Factory builds users and posts and persists them in batches.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	// synthetic ID counter when running in DryRun mode
	nextID uint
	now    time.Time
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:     db,
		opts:   opts,
		faker:  gofakeit.New(seed),
		nextID: 1000,
		now:    time.Now().UTC(),
	}
}

// BuildUser constructs a user with a unique username derived from n.
func (f *Factory) BuildUser(n int) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := fmt.Sprintf("%s_%d", strings.ToLower(sanitizeName(first)), n)
	return &models.User{
		Username:    username,
		DisplayName: first + " " + last,
		Bio:         f.faker.HipsterSentence(8),
	}
}

// BuildPost constructs an original post by user, created at a random point
// within the last MaxDays days. It is not persisted.
func (f *Factory) BuildPost(user *models.User) *models.Post {
	text := f.faker.Sentence(f.faker.Number(4, 16))
	tags := f.faker.Number(0, 2)
	for i := 0; i < tags; i++ {
		text += " #" + f.faker.RandomString(hashtags)
	}
	text = truncateRunes(text, models.MaxPostTextRunes)

	createdAt := f.randomTime()
	return &models.Post{
		AuthorID:   user.ID,
		Text:       text,
		SearchText: strings.ToLower(text),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// CreateUsersBatch persists users in chunks of BatchSize.
func (f *Factory) CreateUsersBatch(users []*models.User) error {
	if f.opts.DryRun {
		for _, u := range users {
			f.nextID++
			u.ID = f.nextID
		}
		log.Printf("[dry-run] CreateUsersBatch: %d users (no DB write)", len(users))
		return nil
	}
	return f.db.CreateInBatches(users, f.batchSize()).Error
}

// CreatePostsBatch persists posts in chunks of BatchSize.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Omit("Author").CreateInBatches(posts, f.batchSize()).Error
}

func (f *Factory) batchSize() int {
	if f.opts.BatchSize <= 0 {
		return 100
	}
	return f.opts.BatchSize
}

func (f *Factory) randomTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return f.now.Add(-back).Truncate(time.Microsecond)
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
