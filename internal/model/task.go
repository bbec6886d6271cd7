package model

// Task statuses. The simple status route only ever moves a task to Done;
// the edit view may set either value.
const (
	StatusPending = "Pending"
	StatusDone    = "Done"
)

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	AssignedTo  string `gorm:"not null;index"`
	AssignedBy  string `gorm:"not null;index"`
	DueDate     *string
	Status      string `gorm:"not null;default:Pending"`
}
