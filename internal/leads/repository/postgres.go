package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps each collection as a JSONB document table
// (id, doc, created_at). Tables are created by the embedded migrations in
// platform/db.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Stores exposes the postgres store through the segregated store interfaces.
func (s *PostgresStore) Stores() Stores {
	return Stores{
		Leads:    pgLeads{s.pool},
		Contacts: pgContacts{s.pool},
		Accounts: pgAccounts{s.pool},
	}
}

// Ping checks connectivity for GET /api/health.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

type pgLeads struct{ pool *pgxpool.Pool }

func (r pgLeads) Create(ctx context.Context, lead *domain.Lead) error {
	prepareLead(lead)
	return insertDoc(ctx, r.pool, "leads", lead.ID, lead.CreatedAt, lead)
}

func (r pgLeads) FindByID(ctx context.Context, id string) (domain.Lead, error) {
	var lead domain.Lead
	err := findDoc(ctx, r.pool, "leads", id, &lead)
	return lead, err
}

func (r pgLeads) Find(ctx context.Context, filter LeadFilter) ([]domain.Lead, error) {
	var (
		where []string
		args  []any
	)
	if filter.IDs != nil {
		args = append(args, filter.IDs)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	switch filter.NotConvertedTo {
	case domain.TargetContact:
		where = append(where, "doc->>'convertedToContactId' IS NULL")
	case domain.TargetAccount:
		where = append(where, "doc->>'convertedToAccountId' IS NULL")
	}

	query := "SELECT doc FROM leads"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: find leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var lead domain.Lead
		if err := json.Unmarshal(raw, &lead); err != nil {
			return nil, fmt.Errorf("store: decode lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

func (r pgLeads) Update(ctx context.Context, lead domain.Lead) error {
	return updateDoc(ctx, r.pool, "leads", lead.ID, lead)
}

func (r pgLeads) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type pgContacts struct{ pool *pgxpool.Pool }

func (r pgContacts) Create(ctx context.Context, contact *domain.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}
	return insertDoc(ctx, r.pool, "contacts", contact.ID, contact.CreatedAt, contact)
}

func (r pgContacts) FindByID(ctx context.Context, id string) (domain.Contact, error) {
	var contact domain.Contact
	err := findDoc(ctx, r.pool, "contacts", id, &contact)
	return contact, err
}

func (r pgContacts) Find(ctx context.Context, filter ContactFilter) ([]domain.Contact, error) {
	where, args := contactWhere(filter)
	rows, err := r.pool.Query(ctx, "SELECT doc FROM contacts"+where+" ORDER BY created_at ASC, id ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("store: find contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var contact domain.Contact
		if err := json.Unmarshal(raw, &contact); err != nil {
			return nil, fmt.Errorf("store: decode contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return contacts, nil
}

func (r pgContacts) Count(ctx context.Context, filter ContactFilter) (int, error) {
	where, args := contactWhere(filter)
	var n int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contacts"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count contacts: %w", err)
	}
	return n, nil
}

func (r pgContacts) Update(ctx context.Context, contact domain.Contact) error {
	return updateDoc(ctx, r.pool, "contacts", contact.ID, contact)
}

func contactWhere(filter ContactFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.ConvertedFromLead != "" {
		args = append(args, filter.ConvertedFromLead)
		where = append(where, fmt.Sprintf("doc->>'convertedFromLead' = $%d", len(args)))
	}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		where = append(where, fmt.Sprintf("doc->>'accountId' = $%d", len(args)))
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

type pgAccounts struct{ pool *pgxpool.Pool }

func (r pgAccounts) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	return insertDoc(ctx, r.pool, "accounts", account.ID, account.CreatedAt, account)
}

func (r pgAccounts) FindByID(ctx context.Context, id string) (domain.Account, error) {
	var account domain.Account
	err := findDoc(ctx, r.pool, "accounts", id, &account)
	return account, err
}

func (r pgAccounts) Update(ctx context.Context, account domain.Account) error {
	return updateDoc(ctx, r.pool, "accounts", account.ID, account)
}

// table names below are package constants, never user input.

func insertDoc(ctx context.Context, pool *pgxpool.Pool, table, id string, createdAt time.Time, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", table, err)
	}
	_, err = pool.Exec(ctx,
		"INSERT INTO "+table+" (id, doc, created_at) VALUES ($1, $2::jsonb, $3)",
		id, string(data), createdAt,
	)
	if err != nil {
		return fmt.Errorf("store: insert %s: %w", table, err)
	}
	return nil
}

func findDoc(ctx context.Context, pool *pgxpool.Pool, table, id string, dest any) error {
	var raw []byte
	err := pool.QueryRow(ctx, "SELECT doc FROM "+table+" WHERE id = $1", id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: find %s: %w", table, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("store: decode %s: %w", table, err)
	}
	return nil
}

func updateDoc(ctx context.Context, pool *pgxpool.Pool, table, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", table, err)
	}
	tag, err := pool.Exec(ctx, "UPDATE "+table+" SET doc = $2::jsonb WHERE id = $1", id, string(data))
	if err != nil {
		return fmt.Errorf("store: update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
