package domain

type Trainer struct {
	ID             string  `db:"id" json:"id"`
	UserID         string  `db:"user_id" json:"userId"`
	Name           string  `db:"name" json:"name"`
	Specialization string  `db:"specialization" json:"specialization"`
	Experience     int     `db:"experience" json:"experience"`
	Price          float64 `db:"price" json:"price"`
	Description    string  `db:"description" json:"description"`
	Rating         float64 `db:"rating" json:"rating"`
	Image          string  `db:"image" json:"image"`
	Available      bool    `db:"available" json:"available"`
}

const (
	HireActive    = "active"
	HireCompleted = "completed"
	HireCancelled = "cancelled"
)

type TrainerHire struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	TrainerID string    `db:"trainer_id" json:"trainerId"`
	StartDate string    `db:"start_date" json:"startDate"`
	EndDate   string    `db:"end_date" json:"endDate,omitempty"`
	Status    string    `db:"status" json:"status"`
	Messages  []Message `db:"-" json:"messages"`
}

type Message struct {
	ID         string `db:"id" json:"id"`
	SenderID   string `db:"sender_id" json:"senderId"`
	SenderName string `db:"sender_name" json:"senderName"`
	Content    string `db:"content" json:"content"`
	Timestamp  string `db:"ts" json:"timestamp"`
}
