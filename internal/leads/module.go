// Package leads provides the lead conversion bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"fmt"

	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/leads/conversion"
	"crm_backend/internal/leads/dedup"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/handler"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"
	"crm_backend/platform/schema"
	"crm_backend/platform/validator"
)

// Config combines the settings the leads module reads.
type Config interface {
	config.ConversionConfig
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	conversion *conversion.Service
	dedup      *dedup.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// jobs may be nil when no background worker is configured.
func NewModule(stores repository.Stores, eventBus events.Bus, jobs handler.JobEnqueuer, val *validator.Validator, cfg Config, log *logger.Logger) (*Module, error) {
	schemas, err := schema.NewRegistry(domain.Schemas())
	if err != nil {
		return nil, fmt.Errorf("leads: compile schemas: %w", err)
	}

	phones := phone.NewNormalizer(cfg.GetPhoneDefaultRegion())

	// Create focused services (vertical slices)
	mgmtSvc := management.New(stores.Leads, phones)
	convSvc := conversion.New(stores, schemas, eventBus, log,
		conversion.WithBulkConcurrency(cfg.GetBulkConversionConcurrency()),
	)

	dedupOpts := []dedup.Option{}
	if cfg.GetDedupNormalizePhone() {
		dedupOpts = append(dedupOpts, dedup.WithPhoneNormalizer(phones))
	}
	dedupSvc := dedup.New(stores.Leads, eventBus, log, cfg.GetDedupDefaultCriteria(), dedupOpts...)

	h := handler.New(mgmtSvc, convSvc, dedupSvc, jobs, val)

	return &Module{
		handler:    h,
		management: mgmtSvc,
		conversion: convSvc,
		dedup:      dedupSvc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ConversionService returns the conversion service for the background worker.
func (m *Module) ConversionService() *conversion.Service {
	return m.conversion
}

// DedupService returns the deduplication service for the background worker.
func (m *Module) DedupService() *dedup.Service {
	return m.dedup
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterAccountRoutes(ctx.Protected.Group("/accounts"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
