package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
)

// TemplateRepository stores per-(nationality, type) overrides of the embedded
// default feedback templates.
type TemplateRepository interface {
	UpsertTemplate(executor SQLExecutor, tpl *models.EmailTemplate) error
	GetTemplate(nationality, templateType string) (*models.EmailTemplate, error)
	GetTemplatesByType(templateType string) ([]models.EmailTemplate, error)
	DeleteTemplatesByType(executor SQLExecutor, templateType string) error
	DeleteAllTemplates(executor SQLExecutor) error
}

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new instance of TemplateRepository.
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// UpsertTemplate inserts or replaces the override for one (nationality, type).
func (r *templateRepository) UpsertTemplate(executor SQLExecutor, tpl *models.EmailTemplate) error {
	query := `INSERT INTO email_templates (nationality, template_type, content, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          ON CONFLICT (nationality, template_type)
	          DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
	          RETURNING id`

	currentTime := time.Now()
	err := executor.QueryRow(query, tpl.Nationality, tpl.TemplateType, tpl.Content, currentTime).Scan(&tpl.ID)
	if err != nil {
		return fmt.Errorf("%w: upserting template %s/%s: %v", ErrDatabaseError, tpl.Nationality, tpl.TemplateType, err)
	}
	return nil
}

// GetTemplate retrieves the override for one (nationality, type), if any.
func (r *templateRepository) GetTemplate(nationality, templateType string) (*models.EmailTemplate, error) {
	tpl := &models.EmailTemplate{}
	query := `SELECT id, nationality, template_type, content, created_at, updated_at
	          FROM email_templates WHERE nationality = $1 AND template_type = $2`

	err := r.db.QueryRow(query, nationality, templateType).Scan(
		&tpl.ID, &tpl.Nationality, &tpl.TemplateType, &tpl.Content, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting template %s/%s: %v", ErrDatabaseError, nationality, templateType, err)
	}
	return tpl, nil
}

// GetTemplatesByType retrieves all overrides of one template type.
func (r *templateRepository) GetTemplatesByType(templateType string) ([]models.EmailTemplate, error) {
	templates := []models.EmailTemplate{}
	query := `SELECT id, nationality, template_type, content, created_at, updated_at
	          FROM email_templates WHERE template_type = $1 ORDER BY nationality ASC`

	rows, err := r.db.Query(query, templateType)
	if err != nil {
		return nil, fmt.Errorf("%w: querying templates of type %s: %v", ErrDatabaseError, templateType, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tpl models.EmailTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Nationality, &tpl.TemplateType, &tpl.Content, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning template: %v", ErrDatabaseError, err)
		}
		templates = append(templates, tpl)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating template rows: %v", ErrDatabaseError, err)
	}
	return templates, nil
}

// DeleteTemplatesByType removes every override of one type, resetting those
// nationalities to the embedded defaults.
func (r *templateRepository) DeleteTemplatesByType(executor SQLExecutor, templateType string) error {
	query := `DELETE FROM email_templates WHERE template_type = $1`
	if _, err := executor.Exec(query, templateType); err != nil {
		return fmt.Errorf("%w: deleting templates of type %s: %v", ErrDatabaseError, templateType, err)
	}
	return nil
}

// DeleteAllTemplates removes every stored override.
func (r *templateRepository) DeleteAllTemplates(executor SQLExecutor) error {
	query := `DELETE FROM email_templates`
	if _, err := executor.Exec(query); err != nil {
		return fmt.Errorf("%w: deleting all templates: %v", ErrDatabaseError, err)
	}
	return nil
}
