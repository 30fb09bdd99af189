package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/pkg/apperrors"
	"github.com/selinay/moraled/internal/pkg/dberrors"
)

// RuleRepository handles database operations for the three-level behavior
// rule catalogue (chapters, dimensions, sub-items).
type RuleRepository struct {
	db *pgxpool.Pool
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{
		db: db,
	}
}

// CreateChapter inserts a rule chapter and fills in its ID.
func (r *RuleRepository) CreateChapter(ctx context.Context, chapter *models.RuleChapter) error {
	query := `
		INSERT INTO rule_chapters (name, description, display_order)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, chapter.Name, chapter.Description, chapter.Order).Scan(&chapter.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRuleNameTaken
		}
		return fmt.Errorf("error creating rule chapter: %w", err)
	}
	return nil
}

// GetChapter retrieves a chapter by ID.
func (r *RuleRepository) GetChapter(ctx context.Context, id int64) (*models.RuleChapter, error) {
	var chapter models.RuleChapter
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, display_order FROM rule_chapters WHERE id = $1`, id,
	).Scan(&chapter.ID, &chapter.Name, &chapter.Description, &chapter.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChapterNotFound
		}
		return nil, fmt.Errorf("error retrieving rule chapter: %w", err)
	}
	return &chapter, nil
}

// ListChapters retrieves all chapters in display order.
func (r *RuleRepository) ListChapters(ctx context.Context) ([]*models.RuleChapter, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, display_order FROM rule_chapters ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing rule chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*models.RuleChapter
	for rows.Next() {
		var chapter models.RuleChapter
		if err := rows.Scan(&chapter.ID, &chapter.Name, &chapter.Description, &chapter.Order); err != nil {
			return nil, err
		}
		chapters = append(chapters, &chapter)
	}
	return chapters, rows.Err()
}

// UpdateChapter persists a chapter's fields.
func (r *RuleRepository) UpdateChapter(ctx context.Context, chapter *models.RuleChapter) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE rule_chapters SET name = $1, description = $2, display_order = $3 WHERE id = $4`,
		chapter.Name, chapter.Description, chapter.Order, chapter.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRuleNameTaken
		}
		return fmt.Errorf("error updating rule chapter: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrChapterNotFound
	}
	return nil
}

// DeleteChapter removes a chapter. Dimensions and sub-items cascade.
func (r *RuleRepository) DeleteChapter(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM rule_chapters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting rule chapter: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrChapterNotFound
	}
	return nil
}

// CreateDimension inserts a rule dimension and fills in its ID.
func (r *RuleRepository) CreateDimension(ctx context.Context, dim *models.RuleDimension) error {
	query := `
		INSERT INTO rule_dimensions (chapter_id, name, description, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, dim.ChapterID, dim.Name, dim.Description, dim.Order).Scan(&dim.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRuleNameTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrChapterNotFound
		}
		return fmt.Errorf("error creating rule dimension: %w", err)
	}
	return nil
}

// GetDimension retrieves a dimension by ID.
func (r *RuleRepository) GetDimension(ctx context.Context, id int64) (*models.RuleDimension, error) {
	var dim models.RuleDimension
	err := r.db.QueryRow(ctx,
		`SELECT id, chapter_id, name, description, display_order FROM rule_dimensions WHERE id = $1`, id,
	).Scan(&dim.ID, &dim.ChapterID, &dim.Name, &dim.Description, &dim.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDimensionNotFound
		}
		return nil, fmt.Errorf("error retrieving rule dimension: %w", err)
	}
	return &dim, nil
}

// ListDimensions retrieves dimensions, optionally for one chapter.
func (r *RuleRepository) ListDimensions(ctx context.Context, chapterID *int64) ([]*models.RuleDimension, error) {
	query := `SELECT id, chapter_id, name, description, display_order FROM rule_dimensions`
	var args []interface{}
	if chapterID != nil {
		query += ` WHERE chapter_id = $1`
		args = append(args, *chapterID)
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing rule dimensions: %w", err)
	}
	defer rows.Close()

	var dims []*models.RuleDimension
	for rows.Next() {
		var dim models.RuleDimension
		if err := rows.Scan(&dim.ID, &dim.ChapterID, &dim.Name, &dim.Description, &dim.Order); err != nil {
			return nil, err
		}
		dims = append(dims, &dim)
	}
	return dims, rows.Err()
}

// UpdateDimension persists a dimension's fields.
func (r *RuleRepository) UpdateDimension(ctx context.Context, dim *models.RuleDimension) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE rule_dimensions SET name = $1, description = $2, display_order = $3 WHERE id = $4`,
		dim.Name, dim.Description, dim.Order, dim.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRuleNameTaken
		}
		return fmt.Errorf("error updating rule dimension: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDimensionNotFound
	}
	return nil
}

// DeleteDimension removes a dimension. Sub-items and their behavior scores
// cascade per schema.
func (r *RuleRepository) DeleteDimension(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM rule_dimensions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting rule dimension: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDimensionNotFound
	}
	return nil
}

// CreateSubItem inserts a rule sub-item and fills in its ID.
func (r *RuleRepository) CreateSubItem(ctx context.Context, item *models.RuleSubItem) error {
	query := `
		INSERT INTO rule_sub_items (dimension_id, name, description, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, item.DimensionID, item.Name, item.Description, item.Order).Scan(&item.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRuleNameTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDimensionNotFound
		}
		return fmt.Errorf("error creating rule sub-item: %w", err)
	}
	return nil
}

// GetSubItem retrieves a sub-item by ID.
func (r *RuleRepository) GetSubItem(ctx context.Context, id int64) (*models.RuleSubItem, error) {
	var item models.RuleSubItem
	err := r.db.QueryRow(ctx,
		`SELECT id, dimension_id, name, description, display_order FROM rule_sub_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.DimensionID, &item.Name, &item.Description, &item.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubItemNotFound
		}
		return nil, fmt.Errorf("error retrieving rule sub-item: %w", err)
	}
	return &item, nil
}

// ListSubItems retrieves sub-items, optionally for one dimension.
func (r *RuleRepository) ListSubItems(ctx context.Context, dimensionID *int64) ([]*models.RuleSubItem, error) {
	query := `SELECT id, dimension_id, name, description, display_order FROM rule_sub_items`
	var args []interface{}
	if dimensionID != nil {
		query += ` WHERE dimension_id = $1`
		args = append(args, *dimensionID)
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing rule sub-items: %w", err)
	}
	defer rows.Close()

	var items []*models.RuleSubItem
	for rows.Next() {
		var item models.RuleSubItem
		if err := rows.Scan(&item.ID, &item.DimensionID, &item.Name, &item.Description, &item.Order); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// UpdateSubItem persists a sub-item's fields.
func (r *RuleRepository) UpdateSubItem(ctx context.Context, item *models.RuleSubItem) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE rule_sub_items SET name = $1, description = $2, display_order = $3 WHERE id = $4`,
		item.Name, item.Description, item.Order, item.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRuleNameTaken
		}
		return fmt.Errorf("error updating rule sub-item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubItemNotFound
	}
	return nil
}

// DeleteSubItem removes a sub-item.
func (r *RuleRepository) DeleteSubItem(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM rule_sub_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting rule sub-item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubItemNotFound
	}
	return nil
}
