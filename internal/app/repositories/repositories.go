package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	GradeRepository        *GradeRepository
	ClassRepository        *ClassRepository
	RuleRepository         *RuleRepository
	ScoreRepository        *ScoreRepository
	SubmissionRepository   *SubmissionRepository
	AwardRepository        *AwardRepository
	RelationshipRepository *RelationshipRepository
	NotificationRepository *NotificationRepository
	TokenRepository        *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		GradeRepository:        NewGradeRepository(db),
		ClassRepository:        NewClassRepository(db),
		RuleRepository:         NewRuleRepository(db),
		ScoreRepository:        NewScoreRepository(db),
		SubmissionRepository:   NewSubmissionRepository(db),
		AwardRepository:        NewAwardRepository(db),
		RelationshipRepository: NewRelationshipRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		TokenRepository:        NewTokenRepository(db),
	}
}
