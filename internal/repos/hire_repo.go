package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gymfit/internal/domain"
)

// HireRepo holds trainers, hires and hire message threads.
type HireRepo struct{ db *sqlx.DB }

func NewHireRepo(db *sqlx.DB) *HireRepo { return &HireRepo{db: db} }

const trainerCols = `id, user_id, name, specialization, experience, price, description, rating, image, available`

func (r *HireRepo) Trainers(ctx context.Context) ([]domain.Trainer, error) {
	out := []domain.Trainer{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+trainerCols+` FROM trainers ORDER BY rating DESC, name`)
	return out, err
}

func (r *HireRepo) Trainer(ctx context.Context, id string) (domain.Trainer, error) {
	var t domain.Trainer
	err := r.db.GetContext(ctx, &t, `SELECT `+trainerCols+` FROM trainers WHERE id = ?`, id)
	return t, notFound(err)
}

// TrainerByUser finds the trainer profile linked to a user account.
func (r *HireRepo) TrainerByUser(ctx context.Context, userID string) (domain.Trainer, error) {
	var t domain.Trainer
	err := r.db.GetContext(ctx, &t, `SELECT `+trainerCols+` FROM trainers WHERE user_id = ? AND user_id <> ''`, userID)
	return t, notFound(err)
}

// EnsureTrainer returns the trainer profile linked to u, creating a default
// one (general specialization, available) when the account has none yet.
func (r *HireRepo) EnsureTrainer(ctx context.Context, u domain.User) (domain.Trainer, error) {
	if u.ID == "" {
		return domain.Trainer{}, domain.ErrNotFound
	}
	name := u.Name
	if name == "" {
		name = u.Email
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO trainers(id, user_id, name, specialization, available)
		SELECT ?, ?, ?, 'General', 1
		WHERE NOT EXISTS (SELECT 1 FROM trainers WHERE user_id = ?)
	`, uuid.NewString(), u.ID, name, u.ID); err != nil {
		return domain.Trainer{}, err
	}
	return r.TrainerByUser(ctx, u.ID)
}

// CreateHire inserts an active hire unless the user already has an active
// hire of the same trainer, in which case domain.ErrConflict is returned.
func (r *HireRepo) CreateHire(ctx context.Context, userID, trainerID string) (domain.TrainerHire, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.TrainerHire{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM hires WHERE user_id = ? AND trainer_id = ? AND status = 'active'
	`, userID, trainerID); err != nil {
		return domain.TrainerHire{}, err
	}
	if n > 0 {
		return domain.TrainerHire{}, domain.ErrConflict
	}

	h := domain.TrainerHire{
		ID:        uuid.NewString(),
		UserID:    userID,
		TrainerID: trainerID,
		StartDate: time.Now().UTC().Format(time.RFC3339),
		Status:    domain.HireActive,
		Messages:  []domain.Message{},
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO hires(id, user_id, trainer_id, start_date, status) VALUES(?,?,?,?,?)
	`, h.ID, h.UserID, h.TrainerID, h.StartDate, h.Status); err != nil {
		return domain.TrainerHire{}, err
	}
	return h, tx.Commit()
}

const hireCols = `id, user_id, trainer_id, start_date, end_date, status`

func (r *HireRepo) Hire(ctx context.Context, id string) (domain.TrainerHire, error) {
	var h domain.TrainerHire
	if err := r.db.GetContext(ctx, &h, `SELECT `+hireCols+` FROM hires WHERE id = ?`, id); err != nil {
		return domain.TrainerHire{}, notFound(err)
	}
	if err := r.loadMessages(ctx, &h); err != nil {
		return domain.TrainerHire{}, err
	}
	return h, nil
}

func (r *HireRepo) ByUser(ctx context.Context, userID string) ([]domain.TrainerHire, error) {
	return r.list(ctx, `SELECT `+hireCols+` FROM hires WHERE user_id = ? ORDER BY start_date DESC`, userID)
}

func (r *HireRepo) ByTrainer(ctx context.Context, trainerID string) ([]domain.TrainerHire, error) {
	return r.list(ctx, `SELECT `+hireCols+` FROM hires WHERE trainer_id = ? ORDER BY start_date DESC`, trainerID)
}

func (r *HireRepo) list(ctx context.Context, q string, arg string) ([]domain.TrainerHire, error) {
	out := []domain.TrainerHire{}
	if err := r.db.SelectContext(ctx, &out, q, arg); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadMessages(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *HireRepo) loadMessages(ctx context.Context, h *domain.TrainerHire) error {
	h.Messages = []domain.Message{}
	return r.db.SelectContext(ctx, &h.Messages, `
		SELECT id, sender_id, sender_name, content, ts
		FROM hire_messages
		WHERE hire_id = ?
		ORDER BY seq
	`, h.ID)
}

// AppendMessage adds m at the end of the hire's thread.
func (r *HireRepo) AppendMessage(ctx context.Context, hireID string, m domain.Message) (domain.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Message{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	if err := tx.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM hire_messages WHERE hire_id = ?`, hireID); err != nil {
		return domain.Message{}, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp == "" {
		m.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO hire_messages(id, hire_id, seq, sender_id, sender_name, content, ts)
		VALUES(?,?,?,?,?,?,?)
	`, m.ID, hireID, seq, m.SenderID, m.SenderName, m.Content, m.Timestamp); err != nil {
		return domain.Message{}, err
	}
	return m, tx.Commit()
}

// SetStatus moves a hire to status; leaving "active" stamps the end date.
func (r *HireRepo) SetStatus(ctx context.Context, id, status string) error {
	end := ""
	if status != domain.HireActive {
		end = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE hires SET status = ?, end_date = ? WHERE id = ?`, status, end, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
