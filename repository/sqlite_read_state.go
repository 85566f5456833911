package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/healthy/database"
)

type sqliteReadStateRepo struct {
	db database.TxQuerier
}

// NewSQLiteReadStateRepo, constructor.
func NewSQLiteReadStateRepo(db database.TxQuerier) ReadStateRepository {
	return &sqliteReadStateRepo{db: db}
}

// MarkDirectRead, tek bir INSERT OR IGNORE ... SELECT ile toplu set-union yapar.
// RETURNING yalnızca gerçekten eklenen satırları döndürür; eşzamanlı iki
// fetch aynı mesajı iki kez saymaz.
func (r *sqliteReadStateRepo) MarkDirectRead(ctx context.Context, readerID, senderID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		INSERT OR IGNORE INTO message_reads (message_id, user_id, read_at)
		SELECT m.id, ?, ? FROM messages m
		WHERE m.group_id IS NULL AND m.sender_id = ? AND m.recipient_id = ?
		RETURNING message_id`,
		readerID, time.Now().UTC(), senderID, readerID,
	)
	if err != nil {
		return nil, fmt.Errorf("read state mark direct: %w", err)
	}
	defer rows.Close()

	marked := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("read state mark direct scan: %w", err)
		}
		marked = append(marked, id)
	}
	return marked, rows.Err()
}

func (r *sqliteReadStateRepo) ReadersOf(ctx context.Context, messageIDs []string) (map[string][]string, error) {
	readers := make(map[string][]string, len(messageIDs))
	if len(messageIDs) == 0 {
		return readers, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT message_id, user_id FROM message_reads WHERE message_id IN `+inClause(len(messageIDs))+
			` ORDER BY read_at, rowid`,
		stringArgs(nil, messageIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("read state readers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var messageID, userID string
		if err := rows.Scan(&messageID, &userID); err != nil {
			return nil, fmt.Errorf("read state readers scan: %w", err)
		}
		readers[messageID] = append(readers[messageID], userID)
	}
	return readers, rows.Err()
}
