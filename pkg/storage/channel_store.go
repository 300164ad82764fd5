package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hfale/pald/pkg/radio"
	_ "github.com/mattn/go-sqlite3"
)

// StoredChannel is a channel table entry: the wire-level channel
// description plus bookkeeping.
type StoredChannel struct {
	radio.Channel
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChannelStore persists the station's channel table with a SQLite
// backend. ALE controllers scan this table; the daemon seeds it from
// configuration and updates it as channels change.
type ChannelStore struct {
	db          *sql.DB
	dbPath      string
	maxChannels int
}

// NewChannelStore creates a channel store backed by the given database
// file, keeping at most maxChannels entries.
func NewChannelStore(dbPath string, maxChannels int) (*ChannelStore, error) {
	store := &ChannelStore{
		dbPath:      dbPath,
		maxChannels: maxChannels,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize channel store: %w", err)
	}

	return store, nil
}

// initialize sets up the database connection and creates tables
func (cs *ChannelStore) initialize() error {
	if cs.dbPath == "" {
		cs.dbPath = "./pald.db"
	}

	if err := os.MkdirAll(filepath.Dir(cs.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	connectionString := cs.dbPath + "?_busy_timeout=10000&_journal_mode=WAL&_foreign_keys=on"

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	cs.db = db

	if err := cs.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("Channel store initialized: %s (max %d channels)", cs.dbPath, cs.maxChannels)
	return nil
}

// createTables creates the database schema
func (cs *ChannelStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS channels (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		tx_frequency INTEGER NOT NULL DEFAULT 0,
		rx_frequency INTEGER NOT NULL DEFAULT 0,
		tx_mode TEXT NOT NULL DEFAULT 'USB',
		rx_mode TEXT NOT NULL DEFAULT 'USB',
		antenna INTEGER NOT NULL DEFAULT 1,
		power INTEGER NOT NULL DEFAULT 100,
		attenuation INTEGER NOT NULL DEFAULT 0,
		in_use BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_channels_rx_frequency ON channels(rx_frequency);
	CREATE INDEX IF NOT EXISTS idx_channels_updated_at ON channels(updated_at DESC);
	`

	_, err := cs.db.Exec(schema)
	return err
}

// Upsert inserts or replaces a channel by ID and prunes the table if
// it has grown past the configured maximum.
func (cs *ChannelStore) Upsert(ch StoredChannel) error {
	query := `
		INSERT INTO channels (
			id, name, tx_frequency, rx_frequency, tx_mode, rx_mode,
			antenna, power, attenuation, in_use, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			tx_frequency = excluded.tx_frequency,
			rx_frequency = excluded.rx_frequency,
			tx_mode = excluded.tx_mode,
			rx_mode = excluded.rx_mode,
			antenna = excluded.antenna,
			power = excluded.power,
			attenuation = excluded.attenuation,
			in_use = excluded.in_use,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := cs.db.Exec(query,
		ch.ID, ch.Name, ch.TxFrequency, ch.RxFrequency,
		ch.TxMode.String(), ch.RxMode.String(),
		ch.Antenna, ch.Power, ch.Attenuation, ch.InUse,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert channel %d: %w", ch.ID, err)
	}

	if err := cs.prune(); err != nil {
		log.Printf("Warning: failed to prune channel table: %v", err)
	}
	return nil
}

// Get retrieves one channel by ID.
func (cs *ChannelStore) Get(id uint8) (StoredChannel, error) {
	query := `
		SELECT id, name, tx_frequency, rx_frequency, tx_mode, rx_mode,
			   antenna, power, attenuation, in_use, updated_at
		FROM channels WHERE id = ?
	`

	var ch StoredChannel
	var txMode, rxMode string
	err := cs.db.QueryRow(query, id).Scan(
		&ch.ID, &ch.Name, &ch.TxFrequency, &ch.RxFrequency,
		&txMode, &rxMode, &ch.Antenna, &ch.Power, &ch.Attenuation,
		&ch.InUse, &ch.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return StoredChannel{}, fmt.Errorf("channel %d not found", id)
	}
	if err != nil {
		return StoredChannel{}, fmt.Errorf("failed to get channel %d: %w", id, err)
	}

	ch.TxMode = radio.ParseMode(txMode)
	ch.RxMode = radio.ParseMode(rxMode)
	return ch, nil
}

// List returns all channels ordered by ID.
func (cs *ChannelStore) List() ([]StoredChannel, error) {
	query := `
		SELECT id, name, tx_frequency, rx_frequency, tx_mode, rx_mode,
			   antenna, power, attenuation, in_use, updated_at
		FROM channels ORDER BY id
	`

	rows, err := cs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []StoredChannel
	for rows.Next() {
		var ch StoredChannel
		var txMode, rxMode string
		if err := rows.Scan(
			&ch.ID, &ch.Name, &ch.TxFrequency, &ch.RxFrequency,
			&txMode, &rxMode, &ch.Antenna, &ch.Power, &ch.Attenuation,
			&ch.InUse, &ch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		ch.TxMode = radio.ParseMode(txMode)
		ch.RxMode = radio.ParseMode(rxMode)
		channels = append(channels, ch)
	}

	return channels, rows.Err()
}

// Delete removes a channel by ID.
func (cs *ChannelStore) Delete(id uint8) error {
	result, err := cs.db.Exec("DELETE FROM channels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete channel %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("channel %d not found", id)
	}
	return nil
}

// Count returns the number of stored channels.
func (cs *ChannelStore) Count() (int, error) {
	var count int
	err := cs.db.QueryRow("SELECT COUNT(*) FROM channels").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count channels: %w", err)
	}
	return count, nil
}

// prune drops the least recently updated channels beyond the maximum.
func (cs *ChannelStore) prune() error {
	if cs.maxChannels <= 0 {
		return nil
	}

	query := `
		DELETE FROM channels WHERE id IN (
			SELECT id FROM channels
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)
	`
	_, err := cs.db.Exec(query, cs.maxChannels)
	return err
}

// Close closes the database connection.
func (cs *ChannelStore) Close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}
