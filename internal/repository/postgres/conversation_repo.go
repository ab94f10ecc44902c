package postgres

import (
	"context"
	"fmt"
	"time"

	"go-recruitment-crm/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type conversationRepo struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) domain.ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(ctx context.Context, conv *domain.Conversation, participantIDs []string, first *domain.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO conversations (subject, candidate_id, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		conv.Subject, conv.CandidateID, conv.CreatedBy,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Conversation already exists")
	}

	for _, uid := range participantIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, conv.ID, uid); err != nil {
			return mapWriteError(fmt.Errorf("failed to add participant %s: %w", uid, err), "Duplicate participant")
		}
	}

	if first != nil {
		first.ConversationID = conv.ID
		if err := addMessage(ctx, tx, first); err != nil {
			return err
		}
		conv.LastMessageAt = &first.CreatedAt
		if _, err := tx.Exec(ctx, `UPDATE conversation_participants SET last_read_at = $3
			WHERE conversation_id = $1 AND user_id = $2`, conv.ID, first.SenderID, first.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func addMessage(ctx context.Context, db dbtx, m *domain.Message) error {
	err := db.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, body, body_html)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		m.ConversationID, m.SenderID, m.Body, m.BodyHTML,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return mapWriteError(err, "Duplicate message")
	}
	_, err = db.Exec(ctx, `UPDATE conversations SET last_message_at = $2, updated_at = NOW() WHERE id = $1`,
		m.ConversationID, m.CreatedAt)
	return err
}

func (r *conversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.db.QueryRow(ctx, `
		SELECT id, subject, candidate_id, created_by, last_message_at, created_at, updated_at
		FROM conversations WHERE id = $1 AND NOT is_deleted`, id,
	).Scan(&c.ID, &c.Subject, &c.CandidateID, &c.CreatedBy, &c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapReadError(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.first_name || ' ' || u.last_name, u.email, p.last_read_at
		FROM conversation_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.conversation_id = $1
		ORDER BY u.last_name, u.first_name`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.Email, &p.LastReadAt); err != nil {
			return nil, err
		}
		c.Participants = append(c.Participants, p)
	}
	return &c, rows.Err()
}

func (r *conversationRepo) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM conversation_participants
		WHERE conversation_id = $1 AND user_id = $2)`, conversationID, userID).Scan(&ok)
	return ok, err
}

func (r *conversationRepo) ListForUser(ctx context.Context, userID string, f domain.ConversationFilter) ([]domain.Conversation, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id AND p.user_id = $1
		WHERE NOT c.is_deleted AND p.is_archived = $2`, userID, f.Archived).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.subject, c.candidate_id, c.created_by, c.last_message_at, c.created_at, c.updated_at,
		       p.is_archived,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = c.id AND NOT m.is_deleted AND m.sender_id <> $1
		          AND (p.last_read_at IS NULL OR m.created_at > p.last_read_at))
		FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id AND p.user_id = $1
		WHERE NOT c.is_deleted AND p.is_archived = $2
		ORDER BY COALESCE(c.last_message_at, c.created_at) DESC, c.id
		LIMIT $3 OFFSET $4`, userID, f.Archived, f.PageSize, f.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.Subject, &c.CandidateID, &c.CreatedBy, &c.LastMessageAt, &c.CreatedAt,
			&c.UpdatedAt, &c.IsArchived, &c.UnreadCount); err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r *conversationRepo) ListMessages(ctx context.Context, conversationID string, page domain.PageQuery) ([]domain.Message, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE conversation_id = $1 AND NOT is_deleted`,
		conversationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.conversation_id, m.sender_id, u.first_name || ' ' || u.last_name,
		       m.body, m.body_html, m.emailed, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = $1 AND NOT m.is_deleted
		ORDER BY m.created_at, m.id
		LIMIT $2 OFFSET $3`, conversationID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderName, &m.Body, &m.BodyHTML,
			&m.Emailed, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, m)
	}
	return msgs, total, rows.Err()
}

func (r *conversationRepo) AddMessage(ctx context.Context, msg *domain.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := addMessage(ctx, tx, msg); err != nil {
		return err
	}
	// the sender has read everything up to their own message; archived copies resurface
	if _, err := tx.Exec(ctx, `UPDATE conversation_participants SET last_read_at = $3
		WHERE conversation_id = $1 AND user_id = $2`, msg.ConversationID, msg.SenderID, msg.CreatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE conversation_participants SET is_archived = FALSE
		WHERE conversation_id = $1`, msg.ConversationID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *conversationRepo) MarkEmailed(ctx context.Context, messageID string) error {
	return checkAffected(r.db.Exec(ctx, `UPDATE messages SET emailed = TRUE WHERE id = $1`, messageID))
}

func (r *conversationRepo) MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error {
	return checkAffected(r.db.Exec(ctx, `UPDATE conversation_participants
		SET last_read_at = GREATEST(COALESCE(last_read_at, $3), $3)
		WHERE conversation_id = $1 AND user_id = $2`, conversationID, userID, at))
}

func (r *conversationRepo) SetArchived(ctx context.Context, conversationID, userID string, archived bool) error {
	return checkAffected(r.db.Exec(ctx, `UPDATE conversation_participants SET is_archived = $3
		WHERE conversation_id = $1 AND user_id = $2`, conversationID, userID, archived))
}
