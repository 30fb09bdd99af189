package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/selinay/moraled/internal/app/models"
	appRepos "github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// CreateDefaultData creates a starter rule taxonomy and the default admin
// account if they don't exist. Errors are collected, not fatal.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	ruleRepo := appRepos.NewRuleRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (rule taxonomy, admin user)...")
	var finalErr error

	// --- Starter rule taxonomy --- //
	chapter := &appModels.RuleChapter{
		Name:        "Daily Conduct",
		Description: "Everyday behavior standards",
		Order:       1,
	}
	err := ruleRepo.CreateChapter(ctx, chapter)
	if err != nil && !errors.Is(err, apperrors.ErrRuleNameTaken) {
		lgr.Error().Err(err).Msg("Error creating default rule chapter")
		finalErr = errors.Join(finalErr, err)
	} else if errors.Is(err, apperrors.ErrRuleNameTaken) {
		chapters, errGet := ruleRepo.ListChapters(ctx)
		if errGet == nil {
			for _, c := range chapters {
				if c.Name == chapter.Name {
					chapter.ID = c.ID
					break
				}
			}
		} else {
			lgr.Error().Err(errGet).Msg("Error loading existing chapters")
			finalErr = errors.Join(finalErr, errGet)
		}
	}

	if chapter.ID > 0 {
		dimensions := []struct {
			name        string
			description string
			subItems    []string
		}{
			{
				name:        "Respect and Courtesy",
				description: "Treating teachers and classmates with respect",
				subItems: []string{
					"Greets teachers and elders",
					"Uses polite language",
				},
			},
			{
				name:        "Discipline",
				description: "Following class and school rules",
				subItems: []string{
					"Arrives on time",
					"Keeps the classroom tidy",
				},
			},
		}

		for i, d := range dimensions {
			dim := &appModels.RuleDimension{
				ChapterID:   chapter.ID,
				Name:        d.name,
				Description: d.description,
				Order:       i + 1,
			}
			err = ruleRepo.CreateDimension(ctx, dim)
			if err != nil && !errors.Is(err, apperrors.ErrRuleNameTaken) {
				lgr.Error().Err(err).Str("dimension", d.name).Msg("Error creating default dimension")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			if errors.Is(err, apperrors.ErrRuleNameTaken) {
				existing, errGet := ruleRepo.ListDimensions(ctx, &chapter.ID)
				if errGet != nil {
					finalErr = errors.Join(finalErr, errGet)
					continue
				}
				for _, e := range existing {
					if e.Name == d.name {
						dim.ID = e.ID
						break
					}
				}
			}
			if dim.ID == 0 {
				continue
			}

			for j, name := range d.subItems {
				item := &appModels.RuleSubItem{
					DimensionID: dim.ID,
					Name:        name,
					Order:       j + 1,
				}
				err = ruleRepo.CreateSubItem(ctx, item)
				if err != nil && !errors.Is(err, apperrors.ErrRuleNameTaken) {
					lgr.Error().Err(err).Str("subItem", name).Msg("Error creating default sub-item")
					finalErr = errors.Join(finalErr, err)
				}
			}
		}
	}

	// --- Default admin user --- //
	exists, err := userRepo.UsernameExists(ctx, "admin")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Username:   "admin",
				Email:      "admin@moraled.app",
				Password:   string(hashedPassword),
				FirstName:  "System",
				LastName:   "Administrator",
				Role:       appModels.RoleSystemAdmin,
				IsActive:   true,
				DateJoined: time.Now(),
			}

			if err := userRepo.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
			}
		}
	} else {
		lgr.Info().Msg("Admin user already exists, skipping creation")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
