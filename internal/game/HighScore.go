package game

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

type HighScoreService struct {
	db *sql.DB
}

const tableName = "high_scores"

var createdAtLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05"}

type Score struct {
	ID         int
	PlayerName string
	Length     int
	Ticks      int
	CreatedAt  time.Time
}

func NewHighScoreService(dbPath string) (*HighScoreService, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	service := &HighScoreService{db: db}
	if err := service.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating high scores table: %w", err)
	}

	return service, nil
}

// createTable creates the high_scores table if it does not exist.
func (serviceImpl *HighScoreService) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_name TEXT NOT NULL,
		length INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := serviceImpl.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	log.Debug("High scores table ensured.")
	return nil
}

func (serviceImpl *HighScoreService) SavePlayersHighScore(playerName string, length int, ticks int) error {
	const insertSQL = `
	INSERT INTO ` + tableName + ` (player_name, length, ticks)
	VALUES (?, ?, ?);`

	_, err := serviceImpl.db.Exec(insertSQL, playerName, length, ticks)
	if err != nil {
		return fmt.Errorf("failed to insert high score for %s: %w", playerName, err)
	}

	return nil
}

// GetHighScores retrieves a paginated list of scores, longest snake first.
func (serviceImpl *HighScoreService) GetHighScores(limit, offset int) ([]Score, error) {
	const selectSQL = `
	SELECT id, player_name, length, ticks, created_at
	FROM ` + tableName + `
	ORDER BY length DESC, ticks DESC, id ASC
	LIMIT ? OFFSET ?;`

	rows, err := serviceImpl.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %w", err)
	}
	defer rows.Close()

	var scores []Score

	for rows.Next() {
		var score Score
		var createdAt string
		err := rows.Scan(&score.ID, &score.PlayerName, &score.Length, &score.Ticks, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		score.CreatedAt = parseCreatedAt(score, createdAt)
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}

	return scores, nil
}

func (serviceImpl *HighScoreService) GetTotalScoreCount() (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + tableName + `;`
	var count int
	err := serviceImpl.db.QueryRow(countSQL).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get total score count: %w", err)
	}
	return count, nil
}

func (serviceImpl *HighScoreService) Close() error {
	return serviceImpl.db.Close()
}

func parseCreatedAt(score Score, raw string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	log.Warn("Time parsing error for score", "id", score.ID, "name", score.PlayerName, "raw", raw)
	return time.Time{}
}
