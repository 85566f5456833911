package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akinalp/healthy/database"
	"github.com/akinalp/healthy/models"
)

type sqliteMessageRepo struct {
	db database.TxQuerier
}

// NewSQLiteMessageRepo, constructor.
func NewSQLiteMessageRepo(db database.TxQuerier) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

func (r *sqliteMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, group_id, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SenderID, msg.RecipientID, msg.GroupID, msg.Text, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("message create: %w", err)
	}
	return nil
}

// ListDirect: iç sorgu en yeni limit mesajı alır, dış sorgu kronolojik çevirir.
func (r *sqliteMessageRepo) ListDirect(ctx context.Context, a, b string, limit int) ([]models.Message, error) {
	return r.list(ctx, `
		SELECT * FROM (
			SELECT m.id, m.sender_id, u.name, m.recipient_id, m.group_id, m.text, m.created_at, m.rowid AS rid
			FROM messages m
			JOIN users u ON u.id = m.sender_id
			WHERE m.group_id IS NULL
			  AND ((m.sender_id = ? AND m.recipient_id = ?) OR (m.sender_id = ? AND m.recipient_id = ?))
			ORDER BY m.created_at DESC, m.rowid DESC
			LIMIT ?
		) ORDER BY created_at ASC, rid ASC`,
		a, b, b, a, limit,
	)
}

func (r *sqliteMessageRepo) ListGroup(ctx context.Context, groupID string, limit int) ([]models.Message, error) {
	return r.list(ctx, `
		SELECT * FROM (
			SELECT m.id, m.sender_id, u.name, m.recipient_id, m.group_id, m.text, m.created_at, m.rowid AS rid
			FROM messages m
			JOIN users u ON u.id = m.sender_id
			WHERE m.group_id = ?
			ORDER BY m.created_at DESC, m.rowid DESC
			LIMIT ?
		) ORDER BY created_at ASC, rid ASC`,
		groupID, limit,
	)
}

func (r *sqliteMessageRepo) list(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("message list: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		var recipientID, groupID sql.NullString
		var rid int64
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &recipientID, &groupID, &m.Text, scanTime(&m.CreatedAt), &rid); err != nil {
			return nil, fmt.Errorf("message list scan: %w", err)
		}
		setMessageTarget(&m, recipientID, groupID)
		m.ReadBy = []string{}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Conversations, window function ile her partner için en son mesajı seçer.
// Okunmamış sayısı partner → viewer yönünde, viewer'ın okumadığı mesajlardır.
func (r *sqliteMessageRepo) Conversations(ctx context.Context, viewerID string) ([]models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH dm AS (
			SELECT m.id, m.sender_id, m.recipient_id, m.text, m.created_at, m.rowid AS rid,
			       CASE WHEN m.sender_id = ? THEN m.recipient_id ELSE m.sender_id END AS partner
			FROM messages m
			WHERE m.group_id IS NULL AND (m.sender_id = ? OR m.recipient_id = ?)
		),
		ranked AS (
			SELECT dm.*, ROW_NUMBER() OVER (PARTITION BY partner ORDER BY created_at DESC, rid DESC) AS rn
			FROM dm
		)
		SELECT p.id, p.name, p.email, p.is_premium,
		       r.id, r.sender_id, s.name, r.recipient_id, r.text, r.created_at,
		       (SELECT COUNT(*) FROM dm d
		        WHERE d.partner = r.partner AND d.sender_id = r.partner
		          AND NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = d.id AND mr.user_id = ?)
		       ) AS unread
		FROM ranked r
		JOIN users p ON p.id = r.partner
		JOIN users s ON s.id = r.sender_id
		WHERE r.rn = 1
		ORDER BY r.created_at DESC, r.rid DESC`,
		viewerID, viewerID, viewerID, viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("message conversations: %w", err)
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		var last models.Message
		var recipientID sql.NullString
		if err := rows.Scan(
			&c.User.ID, &c.User.Name, &c.User.Email, &c.User.IsPremium,
			&last.ID, &last.SenderID, &last.SenderName, &recipientID, &last.Text, scanTime(&last.CreatedAt),
			&c.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("message conversations scan: %w", err)
		}
		setMessageTarget(&last, recipientID, sql.NullString{})
		last.ReadBy = []string{}
		c.LastMessage = &last
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func setMessageTarget(m *models.Message, recipientID, groupID sql.NullString) {
	if recipientID.Valid {
		id := recipientID.String
		m.RecipientID = &id
	}
	if groupID.Valid {
		id := groupID.String
		m.GroupID = &id
	}
}
