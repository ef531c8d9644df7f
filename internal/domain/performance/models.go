package performance

const (
	ScreenName = "performance"

	TaskStatusPending    = "Pending"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"

	FeedbackSelfReview   = "Self-Review"
	FeedbackMentorReview = "Mentor-Review"

	GoalStatusInProgress = "In Progress"
)

var (
	TaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
	Priorities   = []string{PriorityHigh, PriorityMedium, PriorityLow}
)

type Goal struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	TargetDate    string  `json:"target_date"`
	AssignedBy    string  `json:"assigned_by"`
	Status        string  `json:"status"`
	CompletedDate *string `json:"completed_date,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

type Task struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	AssignedBy  string `json:"assigned_by,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Feedback struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	FeedbackType string `json:"feedback_type"`
	Content      string `json:"content"`
	Rating       *int   `json:"rating"`
	GivenBy      string `json:"given_by,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type GoalRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
	AssignedBy  string `json:"assigned_by"`
}

type TaskRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

type FeedbackRequest struct {
	UserID       string `json:"user_id"`
	FeedbackType string `json:"feedback_type"`
	Content      string `json:"content"`
	Rating       *int   `json:"rating"`
}

type TaskUpdate struct {
	Status string `json:"status"`
}

type TaskStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type View struct {
	Goals     []Goal     `json:"goals"`
	Tasks     []Task     `json:"tasks"`
	Feedback  []Feedback `json:"feedback"`
	TaskStats TaskStats  `json:"taskStats"`
}

func CountTasks(tasks []Task) TaskStats {
	var stats TaskStats
	for _, task := range tasks {
		switch task.Status {
		case TaskStatusPending:
			stats.Pending++
		case TaskStatusInProgress:
			stats.InProgress++
		case TaskStatusCompleted:
			stats.Completed++
		}
	}
	return stats
}
