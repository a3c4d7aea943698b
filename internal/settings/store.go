// Package settings persists the dashboard settings as a single JSON record.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/existflow/sheetboard/internal/db"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
)

// Key is the record name the settings are stored under
const Key = "todoDashboardSettings"

// SecretEnv names the environment variable holding the sealing secret
const SecretEnv = "SHEETBOARD_SECRET"

// Store loads and saves settings in the settings table
type Store struct {
	db     *db.DB
	sealer *Sealer
}

// NewStore creates a store. sealer may be nil.
func NewStore(database *db.DB, sealer *Sealer) *Store {
	return &Store{db: database, sealer: sealer}
}

// Load returns the saved settings merged over the defaults. ok is false
// when nothing has been saved yet.
func (s *Store) Load(ctx context.Context) (model.Settings, bool, error) {
	out := model.DefaultSettings()

	raw, ok, err := s.db.GetSetting(ctx, Key)
	if err != nil || !ok {
		return out, false, err
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return model.DefaultSettings(), false, fmt.Errorf("failed to parse settings: %w", err)
	}

	key, err := s.sealer.Open(out.APIKey)
	if err != nil {
		return out, true, fmt.Errorf("failed to open API key: %w", err)
	}
	out.APIKey = key
	return out, true, nil
}

// Save replaces the stored settings
func (s *Store) Save(ctx context.Context, in model.Settings) error {
	key, err := s.sealer.Seal(in.APIKey)
	if err != nil {
		return fmt.Errorf("failed to seal API key: %w", err)
	}
	in.APIKey = key

	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.db.PutSetting(ctx, Key, string(data)); err != nil {
		return err
	}

	logger.Debug("Settings saved", logger.F("sealed", s.sealer.Enabled()))
	return nil
}

// Clear removes the stored settings
func (s *Store) Clear(ctx context.Context) error {
	return s.db.DeleteSetting(ctx, Key)
}
