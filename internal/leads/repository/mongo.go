package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	leadsCollection    = "leads"
	contactsCollection = "contacts"
	accountsCollection = "accounts"
)

// MongoStore persists documents in the leads, contacts and accounts
// collections. Documents use string UUIDs as _id.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// Stores exposes the mongo store through the segregated store interfaces.
func (s *MongoStore) Stores() Stores {
	return Stores{
		Leads:    mongoLeads{s.db.Collection(leadsCollection)},
		Contacts: mongoContacts{s.db.Collection(contactsCollection)},
		Accounts: mongoAccounts{s.db.Collection(accountsCollection)},
	}
}

// EnsureIndices creates the lookup indices used by conversion and
// deduplication if missing.
func (s *MongoStore) EnsureIndices(ctx context.Context) error {
	if _, err := s.db.Collection(leadsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("store: leads indices: %w", err)
	}

	if _, err := s.db.Collection(contactsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "convertedFromLead", Value: 1}}},
		{Keys: bson.D{{Key: "accountId", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("store: contacts indices: %w", err)
	}

	return nil
}

// ─── Leads ────────────────────────────────────────────────────────────────────

type mongoLeads struct{ c *mongo.Collection }

func (s mongoLeads) Create(ctx context.Context, lead *domain.Lead) error {
	prepareLead(lead)
	if _, err := s.c.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("store: create lead: %w", err)
	}
	return nil
}

func (s mongoLeads) FindByID(ctx context.Context, id string) (domain.Lead, error) {
	var lead domain.Lead
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("store: find lead: %w", err)
	}
	return lead, nil
}

func (s mongoLeads) Find(ctx context.Context, filter LeadFilter) ([]domain.Lead, error) {
	query := bson.M{}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": filter.IDs}
	}
	switch filter.NotConvertedTo {
	case domain.TargetContact:
		query["convertedToContactId"] = nil
	case domain.TargetAccount:
		query["convertedToAccountId"] = nil
	}

	cursor, err := s.c.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("store: find leads: %w", err)
	}
	defer cursor.Close(ctx)

	leads := make([]domain.Lead, 0)
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("store: decode leads: %w", err)
	}
	return leads, nil
}

func (s mongoLeads) Update(ctx context.Context, lead domain.Lead) error {
	return replaceByID(ctx, s.c, lead.ID, lead, "lead")
}

func (s mongoLeads) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("store: delete lead: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Contacts ─────────────────────────────────────────────────────────────────

type mongoContacts struct{ c *mongo.Collection }

func (s mongoContacts) Create(ctx context.Context, contact *domain.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("store: create contact: %w", err)
	}
	return nil
}

func (s mongoContacts) FindByID(ctx context.Context, id string) (domain.Contact, error) {
	var contact domain.Contact
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Contact{}, ErrNotFound
	}
	if err != nil {
		return domain.Contact{}, fmt.Errorf("store: find contact: %w", err)
	}
	return contact, nil
}

func (s mongoContacts) Find(ctx context.Context, filter ContactFilter) ([]domain.Contact, error) {
	cursor, err := s.c.Find(ctx, contactQuery(filter),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("store: find contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := make([]domain.Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("store: decode contacts: %w", err)
	}
	return contacts, nil
}

func (s mongoContacts) Count(ctx context.Context, filter ContactFilter) (int, error) {
	n, err := s.c.CountDocuments(ctx, contactQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("store: count contacts: %w", err)
	}
	return int(n), nil
}

func (s mongoContacts) Update(ctx context.Context, contact domain.Contact) error {
	return replaceByID(ctx, s.c, contact.ID, contact, "contact")
}

func contactQuery(filter ContactFilter) bson.M {
	query := bson.M{}
	if filter.ConvertedFromLead != "" {
		query["convertedFromLead"] = filter.ConvertedFromLead
	}
	if filter.AccountID != "" {
		query["accountId"] = filter.AccountID
	}
	return query
}

// ─── Accounts ─────────────────────────────────────────────────────────────────

type mongoAccounts struct{ c *mongo.Collection }

func (s mongoAccounts) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("store: create account: %w", err)
	}
	return nil
}

func (s mongoAccounts) FindByID(ctx context.Context, id string) (domain.Account, error) {
	var account domain.Account
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("store: find account: %w", err)
	}
	return account, nil
}

func (s mongoAccounts) Update(ctx context.Context, account domain.Account) error {
	return replaceByID(ctx, s.c, account.ID, account, "account")
}

func replaceByID(ctx context.Context, c *mongo.Collection, id string, doc any, kind string) error {
	res, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("store: update %s: %w", kind, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
