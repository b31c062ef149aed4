package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
)

// fakeClientRepo is an in-memory ClientRepository for service tests.
type fakeClientRepo struct {
	clients  map[int64]*models.Client
	nextID   int64
	released []repositories.EmailFlag
	claimErr error
}

func newFakeClientRepo(clients ...*models.Client) *fakeClientRepo {
	repo := &fakeClientRepo{clients: make(map[int64]*models.Client), nextID: 1}
	for _, c := range clients {
		if c.ID == 0 {
			c.ID = repo.nextID
		}
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
		repo.clients[c.ID] = c
	}
	return repo
}

func (r *fakeClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	for _, existing := range r.clients {
		if existing.Email == client.Email {
			return 0, repositories.ErrDuplicateKey
		}
	}
	client.ID = r.nextID
	r.nextID++
	copied := *client
	r.clients[client.ID] = &copied
	return client.ID, nil
}

func (r *fakeClientRepo) GetClientByID(id int64) (*models.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *fakeClientRepo) GetClientByEmail(email string) (*models.Client, error) {
	for _, client := range r.clients {
		if client.Email == email {
			copied := *client
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeClientRepo) GetClients(page, pageSize int, _ *string) ([]models.Client, int, error) {
	all, err := r.GetAllClients()
	if err != nil {
		return nil, 0, err
	}
	return all, len(all), nil
}

func (r *fakeClientRepo) GetAllClients() ([]models.Client, error) {
	result := make([]models.Client, 0, len(r.clients))
	for id := int64(1); id < r.nextID; id++ {
		if client, ok := r.clients[id]; ok {
			result = append(result, *client)
		}
	}
	return result, nil
}

func (r *fakeClientRepo) UpdateClient(_ repositories.SQLExecutor, client *models.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) DeleteClient(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) ClaimEmailFlag(_ repositories.SQLExecutor, id int64, flag repositories.EmailFlag, at time.Time) (bool, error) {
	if r.claimErr != nil {
		return false, r.claimErr
	}
	client, ok := r.clients[id]
	if !ok {
		return false, nil
	}
	switch flag {
	case repositories.FlagFirstEmail:
		if client.FirstEmailSent {
			return false, nil
		}
		client.FirstEmailSent = true
		stamped := at
		client.FirstEmailSentAt = &stamped
	case repositories.FlagSecondEmail:
		if client.SecondEmailSent {
			return false, nil
		}
		client.SecondEmailSent = true
		stamped := at
		client.SecondEmailSentAt = &stamped
	case repositories.FlagManualEmail:
		if client.ManualEmailSent {
			return false, nil
		}
		client.ManualEmailSent = true
	default:
		return false, fmt.Errorf("unknown flag %q", flag)
	}
	return true, nil
}

func (r *fakeClientRepo) ReleaseEmailFlag(_ repositories.SQLExecutor, id int64, flag repositories.EmailFlag) error {
	client, ok := r.clients[id]
	if !ok {
		return repositories.ErrNotFound
	}
	switch flag {
	case repositories.FlagFirstEmail:
		client.FirstEmailSent = false
		client.FirstEmailSentAt = nil
	case repositories.FlagSecondEmail:
		client.SecondEmailSent = false
		client.SecondEmailSentAt = nil
	case repositories.FlagManualEmail:
		client.ManualEmailSent = false
	}
	r.released = append(r.released, flag)
	return nil
}

func (r *fakeClientRepo) GetEmailCounters() (*repositories.EmailCounters, error) {
	counters := &repositories.EmailCounters{}
	for _, client := range r.clients {
		counters.TotalClients++
		if !client.FirstEmailSent {
			counters.PendingFirst++
		}
		if !client.SecondEmailSent {
			counters.PendingSecond++
		}
		if client.ManualEmailSent {
			counters.ManualSent++
		}
	}
	return counters, nil
}

// fakeTemplateRepo is an in-memory TemplateRepository.
type fakeTemplateRepo struct {
	overrides map[string]*models.EmailTemplate // keyed nationality|type
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{overrides: make(map[string]*models.EmailTemplate)}
}

func templateKey(nationality, templateType string) string {
	return nationality + "|" + templateType
}

func (r *fakeTemplateRepo) UpsertTemplate(_ repositories.SQLExecutor, tpl *models.EmailTemplate) error {
	copied := *tpl
	r.overrides[templateKey(tpl.Nationality, tpl.TemplateType)] = &copied
	return nil
}

func (r *fakeTemplateRepo) GetTemplate(nationality, templateType string) (*models.EmailTemplate, error) {
	tpl, ok := r.overrides[templateKey(nationality, templateType)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *tpl
	return &copied, nil
}

func (r *fakeTemplateRepo) GetTemplatesByType(templateType string) ([]models.EmailTemplate, error) {
	var result []models.EmailTemplate
	for _, tpl := range r.overrides {
		if tpl.TemplateType == templateType {
			result = append(result, *tpl)
		}
	}
	return result, nil
}

func (r *fakeTemplateRepo) DeleteTemplatesByType(_ repositories.SQLExecutor, templateType string) error {
	for key, tpl := range r.overrides {
		if tpl.TemplateType == templateType {
			delete(r.overrides, key)
		}
	}
	return nil
}

func (r *fakeTemplateRepo) DeleteAllTemplates(_ repositories.SQLExecutor) error {
	r.overrides = make(map[string]*models.EmailTemplate)
	return nil
}

// fakeMarketingRepo is an in-memory MarketingRepository.
type fakeMarketingRepo struct {
	entries []models.MarketingEmail
	nextID  int64
}

func newFakeMarketingRepo() *fakeMarketingRepo {
	return &fakeMarketingRepo{nextID: 1}
}

func (r *fakeMarketingRepo) AddEmails(_ repositories.SQLExecutor, listName string, emails []string) (int, error) {
	added := 0
	for _, email := range emails {
		exists := false
		for _, entry := range r.entries {
			if entry.ListName == listName && entry.Email == email {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		r.entries = append(r.entries, models.MarketingEmail{ID: r.nextID, ListName: listName, Email: email})
		r.nextID++
		added++
	}
	return added, nil
}

func (r *fakeMarketingRepo) GetEmails(listName *string) ([]models.MarketingEmail, error) {
	var result []models.MarketingEmail
	for _, entry := range r.entries {
		if listName == nil || entry.ListName == *listName {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeMarketingRepo) DeleteEmail(_ repositories.SQLExecutor, id int64) error {
	for i, entry := range r.entries {
		if entry.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeMarketingRepo) DeleteAllEmails(_ repositories.SQLExecutor) error {
	r.entries = nil
	return nil
}

func (r *fakeMarketingRepo) CountEmails() (int, error) {
	return len(r.entries), nil
}

// sentMail records one delivery made through fakeSender.
type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeSender collects outbound mail instead of talking SMTP. Addresses in
// failFor error out.
type fakeSender struct {
	sent    []sentMail
	failFor map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[string]bool)}
}

func (s *fakeSender) SendHTML(to, subject, body string) error {
	if s.failFor[to] {
		return errors.New("smtp: delivery refused")
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
