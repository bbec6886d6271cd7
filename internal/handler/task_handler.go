package handler

import (
	"net/http"
	"strconv"
	"time"

	"taskapp/internal/auth"
	"taskapp/internal/middleware"
	"taskapp/internal/model"
	"taskapp/internal/repository"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
}

func NewTaskHandler(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// TaskResponse is the task shape rendered into pages.
type TaskResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssignedTo  string  `json:"assigned_to"`
	AssignedBy  string  `json:"assigned_by"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      string  `json:"status"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		AssignedBy:  t.AssignedBy,
		DueDate:     t.DueDate,
		Status:      t.Status,
	}
}

func toTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return out
}

// parseDueDate normalizes a submitted due date. A value that is empty
// or not a calendar date is swallowed to null rather than rejected.
func parseDueDate(raw string) *string {
	if raw == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return nil
	}
	return &raw
}

func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Task not found!")
		return 0, false
	}
	return uint(id), true
}

// canEdit reports whether a principal may view or edit a task.
func canEdit(p auth.Principal, t *model.Task) bool {
	return p.Username == t.AssignedTo || p.Username == t.AssignedBy || p.IsAdmin
}

// Dashboard lists the current user's pending tasks.
func (h *TaskHandler) Dashboard(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	tasks, err := h.taskRepo.GetPendingForUser(c.Request.Context(), principal.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": principal.Username,
		"is_admin": principal.IsAdmin,
		"tasks":    toTaskResponses(tasks),
	})
}

// CompletedTasks lists the current user's done tasks.
func (h *TaskHandler) CompletedTasks(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	tasks, err := h.taskRepo.GetCompletedForUser(c.Request.Context(), principal.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": principal.Username,
		"tasks":    toTaskResponses(tasks),
	})
}

// AssignedTasks lists the tasks the current user handed out.
func (h *TaskHandler) AssignedTasks(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	tasks, err := h.taskRepo.GetAssignedBy(c.Request.Context(), principal.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": principal.Username,
		"tasks":    toTaskResponses(tasks),
	})
}

// AllTasks lists every task. Admin only.
func (h *TaskHandler) AllTasks(c *gin.Context) {
	tasks, err := h.taskRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": toTaskResponses(tasks)})
}

// CreateTaskPage serves the data for the task-creation form: the list
// of assignable usernames and the current user.
func (h *TaskHandler) CreateTaskPage(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	usernames := make([]string, 0, len(users))
	for _, u := range users {
		usernames = append(usernames, u.Username)
	}

	c.JSON(http.StatusOK, gin.H{
		"current_user": principal.Username,
		"users":        usernames,
	})
}

// CreateTask fans one submitted title/description/due-date out into one
// Pending task per selected assignee, all credited to the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)

	title := c.PostForm("title")
	description := c.PostForm("description")
	assignees := c.PostFormArray("assigned_to")

	// A new task without a due date is due today.
	rawDue := c.PostForm("due_date")
	if rawDue == "" {
		rawDue = time.Now().Format("2006-01-02")
	}
	dueDate := parseDueDate(rawDue)

	tasks := make([]model.Task, 0, len(assignees))
	for _, assignee := range assignees {
		tasks = append(tasks, model.Task{
			Title:       title,
			Description: description,
			AssignedTo:  assignee,
			AssignedBy:  principal.Username,
			DueDate:     dueDate,
			Status:      model.StatusPending,
		})
	}

	if err := h.taskRepo.CreateBatch(c.Request.Context(), tasks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tasks"})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// ViewTask serves a single task plus the username list for the edit form.
// Only the assignee, the assigner, or an admin may see it.
func (h *TaskHandler) ViewTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.String(http.StatusNotFound, "Task not found!")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	if !canEdit(principal, task) {
		c.String(http.StatusForbidden, "Access denied!")
		return
	}

	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	usernames := make([]string, 0, len(users))
	for _, u := range users {
		usernames = append(usernames, u.Username)
	}

	c.JSON(http.StatusOK, gin.H{
		"task":  toTaskResponse(task),
		"users": usernames,
	})
}

// UpdateTask replaces a task's fields in place. Changing the assignee
// reassigns the task: the editor becomes the assigner of record.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.String(http.StatusNotFound, "Task not found!")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	if !canEdit(principal, task) {
		c.String(http.StatusForbidden, "Access denied!")
		return
	}

	assignedTo := c.PostForm("assigned_to")
	if assignedTo != task.AssignedTo {
		task.AssignedBy = principal.Username
	}

	task.Title = c.PostForm("title")
	task.Description = c.PostForm("description")
	task.AssignedTo = assignedTo
	task.DueDate = parseDueDate(c.PostForm("due_date"))
	task.Status = c.PostForm("status")

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// UpdateStatus marks a task done. Only the assignee or an admin may do so.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.String(http.StatusNotFound, "Task not found!")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	if principal.Username != task.AssignedTo && !principal.IsAdmin {
		c.String(http.StatusForbidden, "Access denied!")
		return
	}

	if err := h.taskRepo.MarkDone(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// DeleteTask removes a task. Any logged-in user may delete any task;
// there is no ownership check on this route.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrTaskNotFound {
			c.String(http.StatusNotFound, "Task not found!")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
