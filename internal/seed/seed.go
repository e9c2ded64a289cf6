// internal/seed/seed.go
package seed

import (
	"context"
	"log"

	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedData creates a small development dataset: two users, a shared
// workspace, a pending invite, and an open payment request.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Skip when the dev users already exist
	if u, _ := repos.UserRepo.FindByID(ctx, "user_dev_alma"); u != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] Creating development data...")

	alma := &repository.User{
		ID:               "user_dev_alma",
		Email:            "alma@fintrack.dev",
		Name:             "Alma Reyes",
		UserType:         "personal",
		SubscriptionTier: repository.TierPremium,
	}
	repos.UserRepo.Upsert(ctx, alma)

	dimitri := &repository.User{
		ID:               "user_dev_dimitri",
		Email:            "dimitri@fintrack.dev",
		Name:             "Dimitri Volkov",
		UserType:         "personal",
		SubscriptionTier: repository.TierFree,
	}
	repos.UserRepo.Upsert(ctx, dimitri)

	// Shared household workspace owned by Alma
	workspace := &repository.Workspace{
		Name:        "Flat 4B Expenses",
		Description: stringPtr("Shared costs for the flat: rent, utilities, groceries"),
		OwnerID:     alma.ID,
		Budget:      decimal.NewFromInt(2500),
		Currency:    "EUR",
	}
	if err := repos.WorkspaceRepo.Create(ctx, workspace); err != nil {
		log.Printf("[Seed] Error creating workspace: %v", err)
		return
	}

	repos.WorkspaceRepo.AddMember(ctx, &repository.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      alma.ID,
		DisplayName: alma.Name,
		Role:        "admin",
		Salary:      decimal.Zero,
	})
	repos.WorkspaceRepo.AddMember(ctx, &repository.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      dimitri.ID,
		DisplayName: dimitri.Name,
		Role:        "member",
		Salary:      decimal.NewFromInt(3200),
	})

	// Outstanding invite for a third flatmate
	repos.WorkspaceRepo.CreateInvite(ctx, &repository.WorkspaceInvite{
		WorkspaceID: workspace.ID,
		Email:       "noor@fintrack.dev",
		Token:       uuid.New().String(),
		Role:        "member",
	})

	// Open payment request between the flatmates
	repos.PaymentRequestRepo.Create(ctx, &repository.PaymentRequest{
		SenderID:    alma.ID,
		SenderName:  alma.Name,
		RecipientID: dimitri.ID,
		Amount:      decimal.NewFromFloat(412.50),
		Description: "Your half of March utilities",
		Status:      "pending",
		WorkspaceID: &workspace.ID,
	})

	log.Println("[Seed] Done: 2 users, 1 workspace, 1 invite, 1 payment request")
}

func stringPtr(s string) *string {
	return &s
}
