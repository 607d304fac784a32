package stores

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnknownStore is returned when no store matches a shop domain.
var ErrUnknownStore = errors.New("unknown store")

// Store describes one Shopify shop and the spreadsheet it exports to.
type Store struct {
	// Name is the short store identifier used in logs and journal entries.
	Name string `json:"name"`
	// ShopDomain is the myshopify.com domain sent in webhook headers.
	ShopDomain string `json:"shop_domain"`
	// SpreadsheetID identifies the ledger spreadsheet for this store.
	SpreadsheetID string `json:"spreadsheet_id"`
	// APIKey and Password authenticate admin API calls for this store.
	APIKey   string `json:"api_key"`
	Password string `json:"password"`
	// WebhookSecret is the shared secret used to verify webhook signatures.
	WebhookSecret string `json:"webhook_secret"`
}

// Config holds configuration for the store registry.
type Config struct {
	// File is the path to the JSON file describing all stores.
	File string `mapstructure:"file" default:"stores.json"`
}

// Registry holds all configured stores. It is read-only after Load.
type Registry struct {
	stores   []Store
	byDomain map[string]*Store
}

// Load reads and validates the store registry from a JSON file.
// Missing credentials are a configuration error: the process must not
// start serving webhooks it cannot authenticate or act on.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stores file: %w", err)
	}

	var list []Store
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse stores file: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("stores file %s defines no stores", path)
	}

	r := &Registry{
		stores:   list,
		byDomain: make(map[string]*Store, len(list)),
	}
	for i := range r.stores {
		s := &r.stores[i]
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byDomain[s.ShopDomain]; dup {
			return nil, fmt.Errorf("store %s: duplicate shop domain %s", s.Name, s.ShopDomain)
		}
		r.byDomain[s.ShopDomain] = s
	}
	return r, nil
}

func (s *Store) validate() error {
	switch {
	case s.Name == "":
		return errors.New("store with empty name")
	case s.ShopDomain == "":
		return fmt.Errorf("store %s: missing shop_domain", s.Name)
	case s.SpreadsheetID == "":
		return fmt.Errorf("store %s: missing spreadsheet_id", s.Name)
	case s.APIKey == "" || s.Password == "":
		return fmt.Errorf("store %s: missing API credentials", s.Name)
	case s.WebhookSecret == "":
		return fmt.Errorf("store %s: missing webhook_secret", s.Name)
	}
	return nil
}

// ByDomain resolves a store from a shop domain header value.
func (r *Registry) ByDomain(domain string) (*Store, error) {
	s, ok := r.byDomain[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, domain)
	}
	return s, nil
}

// All returns every configured store in file order.
func (r *Registry) All() []*Store {
	out := make([]*Store, len(r.stores))
	for i := range r.stores {
		out[i] = &r.stores[i]
	}
	return out
}

// ByName resolves a store by its short name.
func (r *Registry) ByName(name string) (*Store, error) {
	for i := range r.stores {
		if r.stores[i].Name == name {
			return &r.stores[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
}
