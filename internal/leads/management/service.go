// Package management handles lead capture and lookup.
package management

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/phone"
	"crm_backend/platform/sanitize"
)

// Service handles lead management operations.
type Service struct {
	repo   repository.LeadStore
	phones *phone.Normalizer
}

// New creates a new lead management service.
func New(repo repository.LeadStore, phones *phone.Normalizer) *Service {
	if phones == nil {
		phones = phone.NewNormalizer(phone.DefaultRegion)
	}
	return &Service{repo: repo, phones: phones}
}

// Create captures a new lead. Markup is stripped from text fields and phone
// numbers are stored in E.164 when they parse for the configured region.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (domain.Lead, error) {
	now := time.Now().UTC()
	lead := domain.Lead{
		FirstName:     sanitize.Line(req.FirstName),
		LastName:      sanitize.Line(req.LastName),
		Title:         sanitize.Line(req.Title),
		Company:       sanitize.Line(req.Company),
		Email:         strings.TrimSpace(req.Email),
		Phone:         s.phones.E164(req.Phone),
		Mobile:        s.phones.E164(req.Mobile),
		LeadSource:    sanitize.Line(req.LeadSource),
		LeadStatus:    sanitize.Line(req.LeadStatus),
		Industry:      sanitize.Line(req.Industry),
		Website:       strings.TrimSpace(req.Website),
		EmailOptOut:   req.EmailOptOut,
		Description:   sanitize.Text(req.Description),
		Street:        sanitize.Line(req.Street),
		City:          sanitize.Line(req.City),
		State:         sanitize.Line(req.State),
		ZipCode:       sanitize.Line(req.ZipCode),
		Country:       sanitize.Line(req.Country),
		AnnualRevenue: req.AnnualRevenue,
		NoOfEmployees: req.NoOfEmployees,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, &lead); err != nil {
		return domain.Lead{}, apperr.Internal("failed to create lead", err)
	}
	return lead, nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lead{}, apperr.NotFound("lead not found")
		}
		return domain.Lead{}, apperr.Internal("failed to load lead", err)
	}
	return lead, nil
}
