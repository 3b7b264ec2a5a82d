package todo

import "time"

// Todo is the row shape of the todos table as scanned by sqlx.
type Todo struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	UserID      int64      `db:"user_id"`
	IsCompleted bool       `db:"is_completed"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}
