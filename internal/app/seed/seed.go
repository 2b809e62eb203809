// Package seed fills a database with demo users, communities, threads, and
// replies. It is for development only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	communitystore "github.com/dalemusser/threadhub/internal/app/store/communities"
	threadstore "github.com/dalemusser/threadhub/internal/app/store/threads"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Options controls how much data is created.
type Options struct {
	Users            int
	Communities      int
	ThreadsPerUser   int
	RepliesPerThread int
	Seed             int64 // 0 picks a random seed
}

// Summary counts what Run created.
type Summary struct {
	Users       int
	Communities int
	Threads     int
	Replies     int
}

// Factory writes demo data through the stores, so the seeded documents have
// the same shape as ones written by the app.
type Factory struct {
	users       *userstore.Store
	threads     *threadstore.Store
	communities *communitystore.Store
	faker       *gofakeit.Faker
	rnd         *rand.Rand
	log         *zap.Logger
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *mongo.Database, seed int64, logger *zap.Logger) *Factory {
	if seed == 0 {
		seed = rand.Int63()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		users:       userstore.New(db),
		threads:     threadstore.New(db),
		communities: communitystore.New(db),
		faker:       gofakeit.New(seed),
		rnd:         rand.New(rand.NewSource(seed)),
		log:         logger,
	}
}

// Run creates the requested data and returns what it made.
func (f *Factory) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.user(ctx, i)
		if err != nil {
			return sum, err
		}
		users = append(users, u)
		sum.Users++
	}

	comms := make([]models.Community, 0, opts.Communities)
	for i := 0; i < opts.Communities; i++ {
		c, err := f.community(ctx, users)
		if err != nil {
			return sum, err
		}
		comms = append(comms, c)
		sum.Communities++
	}

	for _, u := range users {
		for j := 0; j < opts.ThreadsPerUser; j++ {
			th := models.Thread{Text: f.faker.Paragraph(1, 2, 12, " "), Author: u.ID}
			if len(comms) > 0 && f.rnd.Intn(2) == 0 {
				cid := comms[f.rnd.Intn(len(comms))].ID
				th.Community = &cid
			}
			th, err := f.threads.Create(ctx, th)
			if err != nil {
				return sum, fmt.Errorf("create thread: %w", err)
			}
			sum.Threads++

			for k := 0; k < opts.RepliesPerThread && len(users) > 0; k++ {
				by := users[f.rnd.Intn(len(users))]
				reply := models.Thread{Text: f.faker.Sentence(8), Author: by.ID}
				if _, err := f.threads.AddReply(ctx, th.ID, reply); err != nil {
					return sum, fmt.Errorf("add reply: %w", err)
				}
				sum.Replies++
			}
		}
	}

	f.log.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("communities", sum.Communities),
		zap.Int("threads", sum.Threads),
		zap.Int("replies", sum.Replies))
	return sum, nil
}

func (f *Factory) user(ctx context.Context, n int) (*models.User, error) {
	identity := "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	// The suffix keeps usernames unique across runs.
	username := fmt.Sprintf("%s%d", strings.ToLower(f.faker.Username()), n)

	err := f.users.Upsert(ctx, userstore.Profile{
		Identity: identity,
		Username: username,
		Name:     f.faker.Name(),
		Bio:      f.faker.HipsterSentence(10),
		Image:    fmt.Sprintf("https://picsum.photos/seed/%s/200/200", identity),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", username, err)
	}
	return f.users.GetByIdentity(ctx, identity)
}

func (f *Factory) community(ctx context.Context, users []*models.User) (models.Community, error) {
	name := f.faker.Company()
	c := models.Community{
		Identity: "org_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Username: strings.ToLower(strings.ReplaceAll(name, " ", "")),
		Name:     name,
		Image:    fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		Bio:      f.faker.Sentence(12),
	}
	if len(users) > 0 {
		creator := users[f.rnd.Intn(len(users))].ID
		c.CreatedBy = &creator
	}

	members := pick(f.rnd, users, 1+len(users)/3)
	for _, m := range members {
		c.Members = append(c.Members, m.ID)
	}

	c, err := f.communities.Create(ctx, c)
	if err != nil {
		return models.Community{}, fmt.Errorf("create community %s: %w", name, err)
	}
	for _, m := range members {
		if err := f.users.AddCommunity(ctx, m.Identity, c.ID); err != nil {
			return models.Community{}, fmt.Errorf("add member: %w", err)
		}
	}
	return c, nil
}

// pick returns up to n distinct users in random order.
func pick(rnd *rand.Rand, users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	out := make([]*models.User, 0, n)
	for _, i := range rnd.Perm(len(users))[:n] {
		out = append(out, users[i])
	}
	return out
}
