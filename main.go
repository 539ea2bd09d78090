package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Yu-yu0202/FileShareService/config"
	"github.com/Yu-yu0202/FileShareService/database"
	"github.com/Yu-yu0202/FileShareService/handlers"
	"github.com/Yu-yu0202/FileShareService/middleware"
	"github.com/Yu-yu0202/FileShareService/policy"
	"github.com/Yu-yu0202/FileShareService/services"
	"github.com/Yu-yu0202/FileShareService/storage"
)

const sessionTTL = 24 * time.Hour

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxFileSize)
	if err != nil {
		log.Fatal("failed to init upload storage: ", err)
	}

	users := services.NewUserService(db)
	files := services.NewFileService(db)

	if err := users.EnsureAdmin(cfg.AdminPassword); err != nil {
		log.Fatal("failed to bootstrap admin user: ", err)
	}

	var backups *services.BackupService
	if cfg.Backup.Enabled() {
		s3svc, err := services.NewS3Service(services.S3Config{
			AccessKey: cfg.Backup.S3AccessKey,
			SecretKey: cfg.Backup.S3SecretKey,
			Region:    cfg.Backup.S3Region,
			Bucket:    cfg.Backup.S3Bucket,
			Endpoint:  cfg.Backup.S3Endpoint,
		})
		if err != nil {
			log.Fatal("failed to init S3 backup client: ", err)
		}
		backups = services.NewBackupService(cfg.DBPath, store, s3svc)
		if cfg.Backup.Schedule != "" {
			if err := backups.Schedule(cfg.Backup.Schedule); err != nil {
				log.Printf("backup schedule %q rejected: %v", cfg.Backup.Schedule, err)
			}
		}
		defer backups.Stop()
	}

	sessions := middleware.NewSessionManager(cfg.SessionSecret, sessionTTL)
	auth := handlers.NewAuthHandler(users, sessions)
	fileHandler := handlers.NewFileHandler(files, store)
	admin := handlers.NewAdminHandler(files, store, backups)
	pages := handlers.NewPageHandler(cfg.PagesDir)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Browser pages.
	html := r.Group("/", middleware.NoCache())
	{
		html.GET("/login", pages.Login())
		html.GET("/dashboard", sessions.Require(policy.OpListVisible), pages.Dashboard())
		html.GET("/register", sessions.Require(policy.OpRegisterUser), pages.Register())
		html.GET("/manage-files", sessions.Require(policy.OpListAll), pages.ManageFiles())
	}

	// Authentication.
	r.POST("/login", loginLimiter.Handler(), auth.Login)
	r.GET("/logout", auth.Logout)
	r.POST("/register", sessions.Require(policy.OpRegisterUser), auth.Register)
	r.GET("/dashboard/userinfo", sessions.Require(policy.OpListVisible), auth.UserInfo)

	// File lifecycle.
	r.POST("/upload", sessions.Require(policy.OpUpload), fileHandler.Upload)
	r.GET("/files", sessions.Require(policy.OpListVisible), fileHandler.List)
	r.GET("/download/:identifier", sessions.Require(policy.OpRead), fileHandler.Download)
	r.GET("/view-file/:id", sessions.Require(policy.OpRead), fileHandler.View)

	// Management surface.
	r.GET("/all-files", sessions.Require(policy.OpListAll), admin.ListAllFiles)
	r.PUT("/update-visibility/:id", sessions.Require(policy.OpSetVisibility), admin.UpdateVisibility)
	r.DELETE("/delete-file/:id", sessions.Require(policy.OpDelete), admin.DeleteFile)
	r.POST("/backup", sessions.Require(policy.OpBackup), admin.RunBackup)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := r.Run("0.0.0.0:" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
