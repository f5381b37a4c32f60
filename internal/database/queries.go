package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Character is an AI persona a user can match with. ScheduleData and
// ProfileData hold the parser output as opaque JSON; the engine reads the
// schedule back without the storage layer ever interpreting it.
type Character struct {
	ID                string
	Name              string
	ScheduleData      []byte
	ScheduleUpdatedAt *time.Time
	ProfileData       []byte
	LastStatus        string
	CreatedAt         time.Time
}

type User struct {
	ID          string
	Email       string
	DigestOptIn bool
}

func (db *DB) CreateCharacter(name string) (*Character, error) {
	c := &Character{
		ID:   uuid.New().String(),
		Name: name,
	}

	err := db.conn.QueryRow(`
		INSERT INTO characters (id, name, last_status, created_at)
		VALUES ($1, $2, 'online', NOW())
		RETURNING created_at
	`, c.ID, c.Name).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert character: %w", err)
	}

	c.LastStatus = "online"
	return c, nil
}

func (db *DB) GetCharacter(id string) (*Character, error) {
	query := `
		SELECT id, name, schedule_data, schedule_updated_at, profile_data, last_status, created_at
		FROM characters
		WHERE id = $1
	`

	var c Character
	var scheduleData, profileData sql.NullString
	err := db.conn.QueryRow(query, id).Scan(
		&c.ID, &c.Name, &scheduleData, &c.ScheduleUpdatedAt,
		&profileData, &c.LastStatus, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("character not found")
		}
		return nil, fmt.Errorf("failed to query character: %w", err)
	}

	if scheduleData.Valid {
		c.ScheduleData = []byte(scheduleData.String)
	}
	if profileData.Valid {
		c.ProfileData = []byte(profileData.String)
	}

	return &c, nil
}

// SaveCharacterSchedule persists the parsed weekly schedule as opaque JSON.
func (db *DB) SaveCharacterSchedule(id string, schedule interface{}) error {
	data, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("failed to serialize schedule: %w", err)
	}

	result, err := db.conn.Exec(`
		UPDATE characters
		SET schedule_data = $1, schedule_updated_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`, data, id)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("character not found")
	}

	return nil
}

func (db *DB) SaveCharacterProfile(id string, profile interface{}) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}

	result, err := db.conn.Exec(`
		UPDATE characters
		SET profile_data = $1, updated_at = NOW()
		WHERE id = $2
	`, data, id)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("character not found")
	}

	return nil
}

// GetActiveCharacters returns every character the presence sweep should
// resolve, schedules included.
func (db *DB) GetActiveCharacters() ([]Character, error) {
	query := `
		SELECT id, name, schedule_data, last_status
		FROM characters
		WHERE schedule_data IS NOT NULL
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	var characters []Character
	for rows.Next() {
		var c Character
		var scheduleData sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &scheduleData, &c.LastStatus); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		if scheduleData.Valid {
			c.ScheduleData = []byte(scheduleData.String)
		}
		characters = append(characters, c)
	}

	return characters, rows.Err()
}

// UpdateCharacterStatus records the last resolved presence status so the
// scheduler can detect transitions between sweeps.
func (db *DB) UpdateCharacterStatus(id, status string) error {
	_, err := db.conn.Exec(`
		UPDATE characters SET last_status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// GetStaleScheduleCharacters lists characters whose schedule is older than
// maxAge and should be regenerated.
func (db *DB) GetStaleScheduleCharacters(maxAge time.Duration, limit int) ([]Character, error) {
	query := `
		SELECT id, name
		FROM characters
		WHERE schedule_updated_at IS NULL
		   OR schedule_updated_at < $1
		ORDER BY schedule_updated_at ASC NULLS FIRST
		LIMIT $2
	`

	rows, err := db.conn.Query(query, time.Now().Add(-maxAge), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale schedules: %w", err)
	}
	defer rows.Close()

	var characters []Character
	for rows.Next() {
		var c Character
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		characters = append(characters, c)
	}

	return characters, rows.Err()
}

// GetLikerDeviceTokens returns the push tokens of users who liked the
// character and want presence notifications.
func (db *DB) GetLikerDeviceTokens(characterID string) ([]string, error) {
	query := `
		SELECT u.device_token
		FROM likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.character_id = $1
		  AND u.device_token IS NOT NULL
		  AND u.device_token <> ''
	`

	rows, err := db.conn.Query(query, characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liker tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens, rows.Err()
}

// GetUserDeviceToken returns the user's push token, or empty when none is
// registered.
func (db *DB) GetUserDeviceToken(userID string) (string, error) {
	var token sql.NullString
	err := db.conn.QueryRow(`
		SELECT device_token FROM users WHERE id = $1
	`, userID).Scan(&token)
	if err != nil {
		return "", fmt.Errorf("failed to query device token: %w", err)
	}
	return token.String, nil
}

// ClearDeviceToken forgets a token FCM rejected so it is never retried.
func (db *DB) ClearDeviceToken(token string) error {
	if token == "" {
		return nil
	}
	_, err := db.conn.Exec(`
		UPDATE users SET device_token = NULL WHERE device_token = $1
	`, token)
	if err != nil {
		return fmt.Errorf("failed to clear device token: %w", err)
	}
	return nil
}

// RecordSwipe stores one swipe; a right swipe also creates a like.
func (db *DB) RecordSwipe(userID, characterID, direction string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO swipes (user_id, character_id, direction, swiped_at)
		VALUES ($1, $2, $3, NOW())
	`, userID, characterID, direction); err != nil {
		return fmt.Errorf("failed to insert swipe: %w", err)
	}

	if direction == "right" {
		if _, err := tx.Exec(`
			INSERT INTO likes (user_id, character_id, liked_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id, character_id) DO NOTHING
		`, userID, characterID); err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
	}

	return tx.Commit()
}

// CountSwipesToday returns how many swipes the user spent since local
// midnight.
func (db *DB) CountSwipesToday(userID string) (int, error) {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM swipes
		WHERE user_id = $1 AND swiped_at >= date_trunc('day', NOW())
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count swipes: %w", err)
	}
	return count, nil
}

// PurgeOldSwipes drops swipe rows older than the retention window so the
// daily counter query stays cheap.
func (db *DB) PurgeOldSwipes(retention time.Duration) (int64, error) {
	result, err := db.conn.Exec(`
		DELETE FROM swipes WHERE swiped_at < $1
	`, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to purge swipes: %w", err)
	}
	return result.RowsAffected()
}

// GetDigestRecipients lists users who opted into the daily match digest.
func (db *DB) GetDigestRecipients() ([]User, error) {
	query := `
		SELECT id, email, digest_opt_in
		FROM users
		WHERE digest_opt_in = true AND email <> ''
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query digest recipients: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.DigestOptIn); err != nil {
			continue
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetCharactersCreatedSince returns recently added characters for digest
// emails.
func (db *DB) GetCharactersCreatedSince(since time.Time) ([]Character, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, created_at FROM characters WHERE created_at >= $1 ORDER BY created_at DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent characters: %w", err)
	}
	defer rows.Close()

	var characters []Character
	for rows.Next() {
		var c Character
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			continue
		}
		characters = append(characters, c)
	}

	return characters, rows.Err()
}
