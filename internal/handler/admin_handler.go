package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	dbPath string
}

func NewAdminHandler(dbPath string) *AdminHandler {
	return &AdminHandler{dbPath: dbPath}
}

// AdminActions serves the admin menu.
func (h *AdminHandler) AdminActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"actions": []string{
			"/create_user",
			"/manage_users",
			"/all_tasks",
			"/download_db",
		},
	})
}

// DownloadDB streams the raw database file as an attachment.
func (h *AdminHandler) DownloadDB(c *gin.Context) {
	c.FileAttachment(h.dbPath, filepath.Base(h.dbPath))
}
