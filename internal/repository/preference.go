package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/dailybible/internal/model"
)

var (
	ErrPreferenceNotFound = errors.New("preference not found")
)

type PreferenceRepository interface {
	Get(deviceID, key string) (*model.Preference, error)
	Upsert(pref *model.Preference) error
	Delete(deviceID, key string) error
	ByDevice(deviceID string) ([]*model.Preference, error)
	ByKey(key string) ([]*model.Preference, error)
	DeleteByDevice(deviceID string) error
}

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(deviceID, key string) (*model.Preference, error) {
	pref := &model.Preference{}
	query := `SELECT * FROM preferences WHERE device_id = $1 AND pref_key = $2`

	err := r.db.Get(pref, query, deviceID, key)
	if err == sql.ErrNoRows {
		return nil, ErrPreferenceNotFound
	}
	if err != nil {
		return nil, err
	}

	return pref, nil
}

func (r *preferenceRepository) Upsert(pref *model.Preference) error {
	query := `
		INSERT INTO preferences (device_id, pref_key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_id, pref_key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(query, pref.DeviceID, pref.Key, pref.Value, pref.UpdatedAt)
	return err
}

func (r *preferenceRepository) Delete(deviceID, key string) error {
	query := `DELETE FROM preferences WHERE device_id = $1 AND pref_key = $2`
	_, err := r.db.Exec(query, deviceID, key)
	return err
}

func (r *preferenceRepository) ByDevice(deviceID string) ([]*model.Preference, error) {
	var prefs []*model.Preference
	query := `SELECT * FROM preferences WHERE device_id = $1 ORDER BY pref_key ASC`

	err := r.db.Select(&prefs, query, deviceID)
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

// ByKey returns the value of key for every device that has one.
func (r *preferenceRepository) ByKey(key string) ([]*model.Preference, error) {
	var prefs []*model.Preference
	query := `SELECT * FROM preferences WHERE pref_key = $1 ORDER BY device_id ASC`

	err := r.db.Select(&prefs, query, key)
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

func (r *preferenceRepository) DeleteByDevice(deviceID string) error {
	query := `DELETE FROM preferences WHERE device_id = $1`
	_, err := r.db.Exec(query, deviceID)
	return err
}
