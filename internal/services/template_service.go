package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/templates"
)

var (
	ErrTemplateTypeInvalid = errors.New("template type must be 'first' or 'second'")
)

// EffectiveTemplate is what the editor shows: the content in force for one
// nationality and whether it comes from a stored override or the embedded
// default.
type EffectiveTemplate struct {
	Nationality string `json:"nationality"`
	Content     string `json:"content"`
	Custom      bool   `json:"custom"`
}

// SaveTemplatesRequest carries the editor's per-nationality contents. Blank
// entries mean "use the default" and are not stored.
type SaveTemplatesRequest struct {
	Templates map[string]string `json:"templates" binding:"required"`
}

// --- TemplateService Interface ---
type TemplateService interface {
	// EffectiveContent resolves the template body to send for one client:
	// stored override first, embedded default otherwise.
	EffectiveContent(nationality, templateType string) (string, error)
	// RenderForClient resolves and renders the template plus subject line.
	RenderForClient(client *models.Client, templateType string) (subject, body string, err error)
	GetEffectiveTemplates(templateType string) ([]EffectiveTemplate, error)
	SaveTemplates(templateType string, contents map[string]string) (int, error)
	ResetTemplates(templateType string) error
	ClearAllTemplates() error
}

type templateService struct {
	templateRepo repositories.TemplateRepository
	db           *sql.DB
}

// NewTemplateService creates a new instance of TemplateService.
func NewTemplateService(repo repositories.TemplateRepository, db *sql.DB) TemplateService {
	return &templateService{templateRepo: repo, db: db}
}

func validateTemplateType(templateType string) error {
	if templateType != models.TemplateTypeFirst && templateType != models.TemplateTypeSecond {
		return ErrTemplateTypeInvalid
	}
	return nil
}

func (s *templateService) EffectiveContent(nationality, templateType string) (string, error) {
	if err := validateTemplateType(templateType); err != nil {
		return "", err
	}

	override, err := s.templateRepo.GetTemplate(nationality, templateType)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return templates.Default(nationality), nil
		}
		// A broken template store must not stop feedback mail going out.
		return templates.Default(nationality), nil
	}
	if strings.TrimSpace(override.Content) == "" {
		return templates.Default(nationality), nil
	}
	return override.Content, nil
}

func (s *templateService) RenderForClient(client *models.Client, templateType string) (string, string, error) {
	content, err := s.EffectiveContent(client.Nationality, templateType)
	if err != nil {
		return "", "", err
	}
	return templates.Subject(client.Nationality), templates.Render(content, client.Name), nil
}

func (s *templateService) GetEffectiveTemplates(templateType string) ([]EffectiveTemplate, error) {
	if err := validateTemplateType(templateType); err != nil {
		return nil, err
	}

	overrides, err := s.templateRepo.GetTemplatesByType(templateType)
	if err != nil {
		return nil, fmt.Errorf("failed to load template overrides: %w", err)
	}
	overrideByNationality := make(map[string]string, len(overrides))
	for _, o := range overrides {
		if strings.TrimSpace(o.Content) != "" {
			overrideByNationality[o.Nationality] = o.Content
		}
	}

	result := []EffectiveTemplate{}
	for _, nationality := range templates.Nationalities() {
		if content, ok := overrideByNationality[nationality]; ok {
			result = append(result, EffectiveTemplate{Nationality: nationality, Content: content, Custom: true})
		} else {
			result = append(result, EffectiveTemplate{Nationality: nationality, Content: templates.Default(nationality), Custom: false})
		}
	}
	return result, nil
}

// SaveTemplates replaces the stored overrides of one type. Blank contents are
// dropped so those nationalities fall back to the defaults. Returns the number
// of overrides stored.
func (s *templateService) SaveTemplates(templateType string, contents map[string]string) (int, error) {
	if err := validateTemplateType(templateType); err != nil {
		return 0, err
	}

	if err := s.templateRepo.DeleteTemplatesByType(s.db, templateType); err != nil {
		return 0, fmt.Errorf("failed to clear previous overrides: %w", err)
	}

	saved := 0
	for _, nationality := range templates.Nationalities() {
		content, ok := contents[nationality]
		if !ok || strings.TrimSpace(content) == "" {
			continue
		}
		tpl := &models.EmailTemplate{
			Nationality:  nationality,
			TemplateType: templateType,
			Content:      content,
		}
		if err := s.templateRepo.UpsertTemplate(s.db, tpl); err != nil {
			return saved, fmt.Errorf("failed to store override for %s: %w", nationality, err)
		}
		saved++
	}
	return saved, nil
}

func (s *templateService) ResetTemplates(templateType string) error {
	if err := validateTemplateType(templateType); err != nil {
		return err
	}
	if err := s.templateRepo.DeleteTemplatesByType(s.db, templateType); err != nil {
		return fmt.Errorf("failed to reset templates: %w", err)
	}
	return nil
}

func (s *templateService) ClearAllTemplates() error {
	if err := s.templateRepo.DeleteAllTemplates(s.db); err != nil {
		return fmt.Errorf("failed to clear templates: %w", err)
	}
	return nil
}
