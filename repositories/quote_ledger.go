package repositories

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/copystructure"

	"github.com/checkmarble/renewals-backend/models"
)

// QuoteLedger keeps every quote version of a renewal session in memory. For a given
// asset, versions form a single chain v1 <- v2 <- ... linked by parent ids.
// Quotes are handed out as deep copies: the only way to change a stored quote is
// Update.
type QuoteLedger struct {
	mu      sync.RWMutex
	quotes  map[string]models.Quote
	byAsset map[string][]string
}

func NewQuoteLedger() *QuoteLedger {
	return &QuoteLedger{
		quotes:  make(map[string]models.Quote),
		byAsset: make(map[string][]string),
	}
}

func (l *QuoteLedger) Put(quote models.Quote) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.quotes[quote.QuoteId]; ok {
		return errors.Wrapf(models.ErrVersionConflict, "quote %s already exists", quote.QuoteId)
	}

	chain := l.byAsset[quote.AssetId]
	expectedVersion := len(chain) + 1
	if quote.Version != expectedVersion {
		return errors.Wrapf(models.ErrVersionConflict,
			"asset %s expects version %d, got %d", quote.AssetId, expectedVersion, quote.Version)
	}

	switch {
	case len(chain) == 0 && quote.ParentQuoteId != nil:
		return errors.Wrapf(models.ErrVersionConflict,
			"first quote of asset %s cannot have a parent", quote.AssetId)
	case len(chain) > 0 && (quote.ParentQuoteId == nil || *quote.ParentQuoteId != chain[len(chain)-1]):
		return errors.Wrapf(models.ErrVersionConflict,
			"quote %s must have %s as parent", quote.QuoteId, chain[len(chain)-1])
	}

	stored, err := cloneQuote(quote)
	if err != nil {
		return err
	}
	l.quotes[quote.QuoteId] = stored
	l.byAsset[quote.AssetId] = append(chain, quote.QuoteId)
	return nil
}

func (l *QuoteLedger) Get(quoteId string) (models.Quote, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	quote, ok := l.quotes[quoteId]
	if !ok {
		return models.Quote{}, errors.Wrapf(models.ErrUnknownQuote, "quote %s", quoteId)
	}
	return cloneQuote(quote)
}

// Latest returns the highest version quoted for the asset, if any.
func (l *QuoteLedger) Latest(assetId string) (models.Quote, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := l.byAsset[assetId]
	if len(chain) == 0 {
		return models.Quote{}, false, nil
	}
	quote, err := cloneQuote(l.quotes[chain[len(chain)-1]])
	if err != nil {
		return models.Quote{}, false, err
	}
	return quote, true, nil
}

// History lists the quotes of an asset by ascending version.
func (l *QuoteLedger) History(assetId string) ([]models.Quote, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := l.byAsset[assetId]
	history := make([]models.Quote, 0, len(chain))
	for _, quoteId := range chain {
		quote, err := cloneQuote(l.quotes[quoteId])
		if err != nil {
			return nil, err
		}
		history = append(history, quote)
	}
	return history, nil
}

// Update applies a state transition to a stored quote. The stored version is only
// replaced if fn succeeds. Identity, lineage, pricing and contract terms cannot be
// changed: only status, decision and approval move.
func (l *QuoteLedger) Update(quoteId string, fn func(*models.Quote) error) (models.Quote, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, ok := l.quotes[quoteId]
	if !ok {
		return models.Quote{}, errors.Wrapf(models.ErrUnknownQuote, "quote %s", quoteId)
	}

	working, err := cloneQuote(stored)
	if err != nil {
		return models.Quote{}, err
	}
	if err := fn(&working); err != nil {
		return models.Quote{}, err
	}
	if working.QuoteId != stored.QuoteId || working.Version != stored.Version || working.AssetId != stored.AssetId ||
		!reflect.DeepEqual(working.ParentQuoteId, stored.ParentQuoteId) {
		return models.Quote{}, errors.Wrapf(models.ErrVersionConflict,
			"quote %s identity cannot be changed", quoteId)
	}
	if !reflect.DeepEqual(working.Pricing, stored.Pricing) || !reflect.DeepEqual(working.Contract, stored.Contract) {
		return models.Quote{}, errors.Wrapf(models.ErrVersionConflict,
			"quote %s terms cannot be changed, issue a new version instead", quoteId)
	}

	updated, err := cloneQuote(working)
	if err != nil {
		return models.Quote{}, err
	}
	l.quotes[quoteId] = updated
	return working, nil
}

func cloneQuote(quote models.Quote) (models.Quote, error) {
	copied, err := copystructure.Copy(quote)
	if err != nil {
		return models.Quote{}, errors.Wrapf(err, "could not copy quote %s", quote.QuoteId)
	}
	return copied.(models.Quote), nil
}
