// Package main provides a tool to seed the database with demo data.
//
// It creates a few users with default lists, a small catalog of books and
// movies, and enough reviews, follows and comments to make the feeds and
// rating summaries interesting during development.
//
// Usage:
//
//	DATA_PATH=~/Shelfd go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shelfdapp/shelfd-server/internal/auth"
	"github.com/shelfdapp/shelfd-server/internal/catalog"
	"github.com/shelfdapp/shelfd-server/internal/domain"
	"github.com/shelfdapp/shelfd-server/internal/id"
	"github.com/shelfdapp/shelfd-server/internal/logger"
	"github.com/shelfdapp/shelfd-server/internal/service"
	"github.com/shelfdapp/shelfd-server/internal/store"
)

// demoPassword is shared by all seeded accounts.
const demoPassword = "correct-horse-battery"

type demoUser struct {
	email       string
	displayName string
	role        domain.Role
}

type demoMedia struct {
	kind       domain.MediaKind
	externalID string
	title      string
	authors    []string
	tags       []string
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Shelfd")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	discard := logger.Discard()

	// Seeded media is created directly, so no upstream adapters are needed.
	registry := catalog.NewRegistry()
	media := service.NewMediaService(s, registry, discard.Logger)
	activity := service.NewActivityService(s, discard.Logger)
	lists := service.NewListService(s, media, activity, discard.Logger)
	reviews := service.NewReviewService(s, media, lists, activity, discard.Logger)
	social := service.NewSocialService(s, activity, discard.Logger)

	users := seedUsers(ctx, s, lists)
	items := seedMedia(ctx, s)
	seedSocialGraph(ctx, social, users)
	seedReviews(ctx, reviews, users, items)

	fmt.Println("Seeding complete")
}

func seedUsers(ctx context.Context, s *store.Store, lists *service.ListService) []*domain.User {
	demos := []demoUser{
		{email: "ana@shelfd.local", displayName: "Ana", role: domain.RoleAdmin},
		{email: "ben@shelfd.local", displayName: "Ben", role: domain.RoleMember},
		{email: "cal@shelfd.local", displayName: "Cal", role: domain.RoleMember},
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	out := make([]*domain.User, 0, len(demos))
	for _, d := range demos {
		existing, err := s.Users.GetByIndex(ctx, "email", d.email)
		if err == nil {
			fmt.Printf("User %s already exists, skipping\n", d.email)
			out = append(out, existing)
			continue
		}

		user := &domain.User{
			Email:        d.email,
			PasswordHash: hash,
			DisplayName:  d.displayName,
			Role:         d.role,
			Status:       domain.UserStatusActive,
		}
		user.ID = id.MustGenerate(id.PrefixUser)
		user.InitTimestamps()

		if err := s.Users.Create(ctx, user.ID, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", d.email, err)
		}
		if err := lists.CreateDefaultLists(ctx, user.ID); err != nil {
			log.Fatalf("Failed to create default lists for %s: %v", d.email, err)
		}

		fmt.Printf("Created user %s (%s)\n", d.displayName, user.Email)
		out = append(out, user)
	}
	return out
}

func seedMedia(ctx context.Context, s *store.Store) []*domain.Media {
	demos := []demoMedia{
		{domain.MediaKindBook, "seed-gb-dune", "Dune", []string{"Frank Herbert"}, []string{"Science Fiction"}},
		{domain.MediaKindBook, "seed-gb-lefthand", "The Left Hand of Darkness", []string{"Ursula K. Le Guin"}, []string{"Science Fiction"}},
		{domain.MediaKindBook, "seed-gb-piranesi", "Piranesi", []string{"Susanna Clarke"}, []string{"Fantasy"}},
		{domain.MediaKindMovie, "seed-tm-550", "Fight Club", nil, []string{"Drama"}},
		{domain.MediaKindMovie, "seed-tm-680", "Pulp Fiction", nil, []string{"Crime"}},
	}

	out := make([]*domain.Media, 0, len(demos))
	for _, d := range demos {
		existing, err := s.GetMediaByExternalID(ctx, d.kind, d.externalID)
		if err == nil {
			out = append(out, existing)
			continue
		}

		prefix := id.PrefixBook
		if d.kind == domain.MediaKindMovie {
			prefix = id.PrefixMovie
		}

		m := &domain.Media{
			Kind:       d.kind,
			ExternalID: d.externalID,
			Title:      d.title,
			Authors:    d.authors,
			Tags:       d.tags,
		}
		m.ID = id.MustGenerate(prefix)
		m.InitTimestamps()

		if err := s.CreateMedia(ctx, m); err != nil {
			log.Fatalf("Failed to create media %s: %v", d.title, err)
		}

		fmt.Printf("Catalogued %s (%s)\n", d.title, m.ID)
		out = append(out, m)
	}
	return out
}

func seedSocialGraph(ctx context.Context, social *service.SocialService, users []*domain.User) {
	// Everyone follows Ana, and Ana follows Ben back.
	edges := [][2]int{{1, 0}, {2, 0}, {0, 1}}
	for _, e := range edges {
		if _, err := social.Follow(ctx, users[e[0]].ID, users[e[1]].ID); err != nil {
			// Conflicts just mean the seeder ran before.
			continue
		}
		fmt.Printf("%s now follows %s\n", users[e[0]].DisplayName, users[e[1]].DisplayName)
	}
}

func seedReviews(ctx context.Context, reviews *service.ReviewService, users []*domain.User, items []*domain.Media) {
	type seedReview struct {
		user   int
		item   int
		rating int
		text   string
	}

	demos := []seedReview{
		{0, 0, 9, "The spice must flow."},
		{1, 0, 7, "Dense but rewarding."},
		{0, 3, 8, "First rule applies."},
		{1, 4, 9, "Endlessly quotable."},
		{2, 1, 10, "Genderless politics done right."},
		{2, 3, 6, ""},
	}

	for _, d := range demos {
		item := items[d.item]
		review, err := reviews.CreateReview(ctx, users[d.user].ID, item.Kind, item.ID, d.rating, d.text)
		if err != nil {
			// One review per user per item; reruns hit the conflict.
			continue
		}
		fmt.Printf("%s rated %s %d/10 (%s)\n", users[d.user].DisplayName, item.Title, d.rating, review.ID)
	}
}
