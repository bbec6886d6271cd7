package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"taskapp/internal/config"
	"taskapp/internal/handler"
	"taskapp/internal/middleware"
	"taskapp/internal/model"
	"taskapp/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM over the single database file
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("❌ failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to open DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	if err := bootstrapAdmin(userRepo); err != nil {
		return nil, fmt.Errorf("❌ failed to seed admin user: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, cfg.SessionSecret, cfg.SessionTTL)
	taskHandler := handler.NewTaskHandler(taskRepo, userRepo)
	userHandler := handler.NewUserHandler(userRepo)
	adminHandler := handler.NewAdminHandler(cfg.DBPath)

	// Public routes
	r.GET("/", authHandler.LoginPage)
	r.POST("/", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Protected routes - require a session
	authorized := r.Group("/")
	authorized.Use(middleware.SessionAuth(cfg.SessionSecret))
	{
		// Task routes
		authorized.GET("/dashboard", taskHandler.Dashboard)
		authorized.GET("/completed_tasks", taskHandler.CompletedTasks)
		authorized.GET("/assigned_tasks", taskHandler.AssignedTasks)
		authorized.GET("/create_task", taskHandler.CreateTaskPage)
		authorized.POST("/create_task", taskHandler.CreateTask)
		authorized.GET("/task/:id", taskHandler.ViewTask)
		authorized.POST("/task/:id", taskHandler.UpdateTask)
		authorized.POST("/update_status/:id", taskHandler.UpdateStatus)
		authorized.POST("/delete_task/:id", taskHandler.DeleteTask)

		// Account routes
		authorized.GET("/edit_account", authHandler.EditAccountPage)
		authorized.POST("/edit_account", authHandler.EditAccount)

		// Admin routes
		admin := authorized.Group("/")
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/admin_actions", adminHandler.AdminActions)
			admin.GET("/manage_users", userHandler.ManageUsers)
			admin.GET("/create_user", userHandler.CreateUserPage)
			admin.POST("/create_user", userHandler.CreateUser)
			admin.GET("/edit_user/:id", userHandler.EditUserPage)
			admin.POST("/edit_user/:id", userHandler.EditUser)
			admin.POST("/delete_user/:id", userHandler.DeleteUser)
			admin.GET("/all_tasks", taskHandler.AllTasks)
			admin.GET("/download_db", adminHandler.DownloadDB)
		}
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

// bootstrapAdmin seeds the default administrator the first time the app
// runs against an empty user table. Never re-run once any user exists.
func bootstrapAdmin(userRepo *repository.UserRepository) error {
	count, err := userRepo.Count(context.Background())
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := &model.User{
		Username: "admin",
		Passcode: "1234",
		IsAdmin:  true,
	}
	if err := userRepo.Create(context.Background(), admin); err != nil {
		return err
	}

	log.Println("✅ Seeded default admin user")
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
