package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type ChatRepo struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{
		db: db,
	}
}

func (r *ChatRepo) Create(ctx context.Context, professionalID, patientID int64) (*domain.Chat, error) {
	query := `
		INSERT INTO chats (professional_id, patient_id, is_active, created_at, updated_at)
		VALUES ($1, $2, true, $3, $3)
		RETURNING id, professional_id, patient_id, is_active, created_at, updated_at
	`

	var chat domain.Chat
	err := r.db.QueryRow(ctx, query, professionalID, patientID, time.Now()).Scan(
		&chat.ID,
		&chat.ProfessionalID,
		&chat.PatientID,
		&chat.IsActive,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)

	if err != nil {
		return nil, storeErr("ошибка создания чата", err)
	}

	return &chat, nil
}

func (r *ChatRepo) getOne(ctx context.Context, condition string, args ...interface{}) (*domain.Chat, error) {
	query := `
		SELECT c.id, c.professional_id, c.patient_id, c.is_active, c.created_at, c.updated_at,
		       pr.name AS professional_name,
		       pt.name AS patient_name
		FROM chats c
		JOIN professionals pr ON c.professional_id = pr.id
		JOIN patients pt ON c.patient_id = pt.id
		WHERE ` + condition

	var chat domain.Chat
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&chat.ID,
		&chat.ProfessionalID,
		&chat.PatientID,
		&chat.IsActive,
		&chat.CreatedAt,
		&chat.UpdatedAt,
		&chat.ProfessionalName,
		&chat.PatientName,
	)

	if err != nil {
		return nil, storeErr("ошибка получения чата", err)
	}

	return &chat, nil
}

func (r *ChatRepo) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	return r.getOne(ctx, "c.id = $1", id)
}

func (r *ChatRepo) GetByParticipants(ctx context.Context, professionalID, patientID int64) (*domain.Chat, error) {
	return r.getOne(ctx, "c.professional_id = $1 AND c.patient_id = $2 AND c.is_active = true", professionalID, patientID)
}

func (r *ChatRepo) list(ctx context.Context, condition string, arg interface{}) ([]domain.Chat, error) {
	query := `
		SELECT c.id, c.professional_id, c.patient_id, c.is_active, c.created_at, c.updated_at,
		       pr.name AS professional_name,
		       pt.name AS patient_name
		FROM chats c
		JOIN professionals pr ON c.professional_id = pr.id
		JOIN patients pt ON c.patient_id = pt.id
		WHERE ` + condition + `
		ORDER BY c.updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, storeErr("ошибка получения списка чатов", err)
	}
	defer rows.Close()

	chats := make([]domain.Chat, 0)
	for rows.Next() {
		var chat domain.Chat
		if err := rows.Scan(
			&chat.ID,
			&chat.ProfessionalID,
			&chat.PatientID,
			&chat.IsActive,
			&chat.CreatedAt,
			&chat.UpdatedAt,
			&chat.ProfessionalName,
			&chat.PatientName,
		); err != nil {
			return nil, storeErr("ошибка сканирования строки чата", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return chats, nil
}

func (r *ChatRepo) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Chat, error) {
	return r.list(ctx, "c.professional_id = $1", professionalID)
}

func (r *ChatRepo) ListByPatient(ctx context.Context, patientID int64) ([]domain.Chat, error) {
	return r.list(ctx, "c.patient_id = $1", patientID)
}

func (r *ChatRepo) CreateMessage(ctx context.Context, chatID int64, sender domain.ChatSender, text string) (*domain.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (chat_id, sender, text, is_read, created_at)
		VALUES ($1, $2, $3, false, $4)
		RETURNING id, chat_id, sender, text, is_read, created_at
	`

	var msg domain.ChatMessage
	err := r.db.QueryRow(ctx, query, chatID, sender, text, time.Now()).Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.Sender,
		&msg.Text,
		&msg.IsRead,
		&msg.CreatedAt,
	)

	if err != nil {
		return nil, storeErr("ошибка создания сообщения", err)
	}

	touch := `UPDATE chats SET updated_at = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, touch, time.Now(), chatID); err != nil {
		return nil, storeErr("ошибка обновления чата", err)
	}

	return &msg, nil
}

func (r *ChatRepo) ListMessages(ctx context.Context, chatID int64) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, chat_id, sender, text, is_read, created_at
		FROM chat_messages
		WHERE chat_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, chatID)
	if err != nil {
		return nil, storeErr("ошибка получения сообщений", err)
	}
	defer rows.Close()

	messages := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.Sender,
			&msg.Text,
			&msg.IsRead,
			&msg.CreatedAt,
		); err != nil {
			return nil, storeErr("ошибка сканирования сообщения", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("ошибка при итерации по строкам", err)
	}

	return messages, nil
}

// MarkMessagesRead помечает прочитанными сообщения, адресованные reader,
// то есть отправленные не им.
func (r *ChatRepo) MarkMessagesRead(ctx context.Context, chatID int64, reader domain.ChatSender) error {
	query := `
		UPDATE chat_messages
		SET is_read = true
		WHERE chat_id = $1 AND sender <> $2 AND is_read = false
	`

	_, err := r.db.Exec(ctx, query, chatID, reader)
	if err != nil {
		return storeErr("ошибка пометки сообщений прочитанными", err)
	}

	return nil
}

func (r *ChatRepo) CountUnread(ctx context.Context, chatID int64, reader domain.ChatSender) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_messages
		WHERE chat_id = $1 AND sender <> $2 AND is_read = false
	`

	var count int
	err := r.db.QueryRow(ctx, query, chatID, reader).Scan(&count)
	if err != nil {
		return 0, storeErr("ошибка подсчета непрочитанных сообщений", err)
	}

	return count, nil
}
