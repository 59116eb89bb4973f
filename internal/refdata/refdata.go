// Package refdata loads the read-only reference documents (accounts, public
// question bank and academic facts) once at startup.
package refdata

import (
	"context"
	"errors"

	"github.com/hyperjump/smartutb/internal/models"
	"github.com/hyperjump/smartutb/internal/storage"
	"github.com/hyperjump/smartutb/pkg/utils"
	"go.uber.org/zap"
)

// Default document keys.
const (
	DefaultUsersKey    = "users.json"
	DefaultPublicKey   = "data_public.json"
	DefaultAcademicKey = "data_academic.json"
)

// Keys names the three reference documents. Empty fields use the defaults.
type Keys struct {
	Users    string
	Public   string
	Academic string
}

func (k Keys) withDefaults() Keys {
	if k.Users == "" {
		k.Users = DefaultUsersKey
	}
	if k.Public == "" {
		k.Public = DefaultPublicKey
	}
	if k.Academic == "" {
		k.Academic = DefaultAcademicKey
	}
	return k
}

// Data is the immutable reference data shared by all requests.
type Data struct {
	Accounts []models.Account
	QA       []models.QAEntry
	Academic *models.AcademicFacts
}

// Load reads every reference document from store. A missing or unparseable
// document is logged and replaced by its empty value; Load never fails.
func Load(ctx context.Context, store storage.Store, keys Keys, logger *zap.Logger) *Data {
	logger = utils.OrNop(logger)
	keys = keys.withDefaults()

	d := &Data{
		Accounts: []models.Account{},
		QA:       []models.QAEntry{},
		Academic: &models.AcademicFacts{},
	}

	var accounts []models.Account
	if loadDocument(ctx, store, keys.Users, &accounts, logger) && accounts != nil {
		d.Accounts = accounts
	}
	var qa []models.QAEntry
	if loadDocument(ctx, store, keys.Public, &qa, logger) && qa != nil {
		d.QA = qa
	}
	var facts models.AcademicFacts
	if loadDocument(ctx, store, keys.Academic, &facts, logger) {
		d.Academic = &facts
	}

	logger.Info("reference data loaded",
		zap.Int("accounts", len(d.Accounts)),
		zap.Int("qa_entries", len(d.QA)),
		zap.Int("schedule_entries", len(d.Academic.Schedule)))
	return d
}

func loadDocument(ctx context.Context, store storage.Store, key string, v interface{}, logger *zap.Logger) bool {
	err := storage.LoadJSON(ctx, store, key, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, storage.ErrNotFound):
		logger.Warn("reference document missing, using empty data", zap.String("key", key))
	default:
		logger.Warn("reference document unreadable, using empty data", zap.String("key", key), zap.Error(err))
	}
	return false
}

// Authenticate returns the first account whose nim and password both match
// exactly. Unknown nim and wrong password are not distinguished.
func (d *Data) Authenticate(nim, password string) (*models.Account, bool) {
	for i := range d.Accounts {
		a := &d.Accounts[i]
		if a.NIM == nim && a.Password == password {
			return a, true
		}
	}
	return nil, false
}
