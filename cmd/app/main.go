package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"neuroleap-backend/internal/config"
	"neuroleap-backend/internal/db"
	"neuroleap-backend/internal/llm"
	"neuroleap-backend/internal/model"
	"neuroleap-backend/internal/repository"
	"neuroleap-backend/internal/service"
	"neuroleap-backend/pkg/middleware"
	"neuroleap-backend/utilities"
)

func main() {
	printStartUpBanner()

	// Load .env before the XML config so env-typed secrets resolve.
	if err := godotenv.Load(); err != nil {
		utilities.Warn("no .env file found, relying on process environment")
	}
	utilities.SetupLogging("logs")

	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		utilities.Error("failed to load config: %v", err)
		return
	}

	// Initialize DB using the loaded config and run migrations.
	db.InitDBFromConfig(cfg)
	err = db.GetDB().AutoMigrate(
		&model.Lesson{},
		&model.NeuroProfile{},
		&model.AdaptedLesson{},
		&model.TrainingLog{},
	)
	if err != nil {
		utilities.Error("migration failed: %v", err)
		return
	}

	if cfg.DB.Initialize {
		seedDemoLessons()
	}

	// Create repositories.
	lessonRepo := repository.NewLessonRepository()
	adaptedRepo := repository.NewAdaptedLessonRepository()
	profileRepo := repository.NewProfileRepository()
	trainingRepo := repository.NewTrainingLogRepository()

	// Model client and gateways. Sampling settings come from config and are
	// injected here, not read globally.
	opts := llm.GenerationOptions{
		Temperature:     cfg.AI.Temperature,
		TopP:            cfg.AI.TopP,
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
	}
	ollamaClient := llm.NewOllamaClient(cfg.AI.OllamaURL, cfg.AI.Model, opts)
	adaptationGateway := llm.NewAdaptationGateway(ollamaClient, cfg.AI.Model)
	profileGateway := llm.NewProfileGateway(ollamaClient, cfg.AI.Model)

	// Create services.
	lessonService := service.NewLessonService(lessonRepo, adaptedRepo, profileRepo, trainingRepo, adaptationGateway)
	profileService := service.NewProfileService(profileRepo, trainingRepo, profileGateway)
	feedbackService := service.NewFeedbackService(adaptedRepo, trainingRepo)
	trainingService := service.NewTrainingService(trainingRepo)
	pdfService := service.NewPDFService(adaptedRepo)

	// Event listeners for post-adaptation work.
	service.InitPDFEventListeners(adaptedRepo)
	if cfg.THIRD_PARTY.HFToken != "" {
		if err := llm.AuthenticateHuggingFace(cfg); err != nil {
			utilities.Warn("Hugging Face authentication failed, image generation disabled: %v", err)
		} else {
			diffusion := &llm.StableDiffusionWrapper{AccessToken: cfg.THIRD_PARTY.HFToken}
			service.InitImageEventListeners(adaptedRepo, diffusion)
		}
	}

	// Initialize Gin router.
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	// Generated assets (lesson images, PDFs).
	r.Static("/assets", "./working")

	// Lesson routes.
	r.GET("/lessons", func(c *gin.Context) {
		var (
			lessons []model.Lesson
			err     error
		)
		if subject := c.Query("subject"); subject != "" {
			lessons, err = lessonService.GetLessonsBySubject(subject)
		} else {
			lessons, err = lessonService.GetLessons()
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, lessons)
	})

	r.POST("/lessons", func(c *gin.Context) {
		var lesson model.Lesson
		if err := c.ShouldBindJSON(&lesson); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if err := lessonService.CreateLesson(&lesson); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, lesson)
	})

	r.GET("/lessons/:id", func(c *gin.Context) {
		lessonID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lesson ID"})
			return
		}
		lesson, err := lessonService.GetLesson(lessonID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if err := lessonRepo.IncrementViewCount(lessonID); err != nil {
			utilities.Warn("failed to bump view count for lesson %s: %v", lessonID, err)
		}
		c.JSON(http.StatusOK, lesson)
	})

	r.POST("/lessons/:id/publish", func(c *gin.Context) {
		lessonID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lesson ID"})
			return
		}
		if err := lessonService.PublishLesson(lessonID); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Lesson published"})
	})

	// The personalization endpoint. Rate limited: a cache miss costs a
	// generative model call.
	playLimiter := middleware.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	r.POST("/lessons/:id/play", playLimiter, func(c *gin.Context) {
		lessonID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lesson ID"})
			return
		}
		var body struct {
			StudentID uuid.UUID `json:"student_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		result, err := lessonService.Play(lessonID, body.StudentID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// Teacher feedback for training data.
	r.POST("/feedback", func(c *gin.Context) {
		var input service.FeedbackInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		entry, err := feedbackService.SubmitFeedback(input)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"status":          "feedback_recorded",
			"training_log_id": entry.ID,
		})
	})

	// Profile routes.
	r.GET("/profiles/:student_id", func(c *gin.Context) {
		studentID, err := uuid.Parse(c.Param("student_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
			return
		}
		profile, err := profileService.GetProfile(studentID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	r.POST("/profiles/:student_id/generate", func(c *gin.Context) {
		studentID, err := uuid.Parse(c.Param("student_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
			return
		}
		var assessment map[string]interface{}
		if err := c.ShouldBindJSON(&assessment); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		profile, err := profileService.GenerateFromAssessment(studentID, assessment)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	r.PUT("/profiles/:student_id/interests", func(c *gin.Context) {
		studentID, err := uuid.Parse(c.Param("student_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
			return
		}
		var body struct {
			Interests []string `json:"interests"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		profile, err := profileService.UpdateInterests(studentID, body.Interests)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	r.GET("/students/:student_id/adapted", func(c *gin.Context) {
		studentID, err := uuid.Parse(c.Param("student_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
			return
		}
		adaptations, err := adaptedRepo.ListByStudent(studentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, adaptations)
	})

	// Training pipeline routes.
	r.GET("/training/stats", func(c *gin.Context) {
		stats, err := trainingService.GetTrainingStats(cfg.Pagination.PageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	r.POST("/training/batches", func(c *gin.Context) {
		var body struct {
			Limit int `json:"limit"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Limit <= 0 {
			body.Limit = cfg.Pagination.PageSize
		}
		batch, err := trainingService.RunBatch(body.Limit, "working/trainingBatches")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, batch)
	})

	r.GET("/training/corrections", func(c *gin.Context) {
		logs, err := trainingService.ListCorrections(cfg.Pagination.PageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, logs)
	})

	r.GET("/training/logs/:id", func(c *gin.Context) {
		logID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
			return
		}
		entry, err := trainingRepo.GetByID(logID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if entry == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTrainingLogNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	})

	// Adapted lesson routes.
	r.POST("/adapted/:id/rating", func(c *gin.Context) {
		adaptedID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adapted lesson ID"})
			return
		}
		var body struct {
			Rating int `json:"rating" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		entry, err := trainingService.RateAdaptation(adaptedID, body.Rating)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"training_log_id": entry.ID, "quality_rating": entry.QualityRating})
	})

	r.POST("/adapted/:id/quiz", playLimiter, func(c *gin.Context) {
		adaptedID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adapted lesson ID"})
			return
		}
		var body struct {
			Count int `json:"count"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			body.Count = 3
		}
		questions, err := lessonService.GenerateQuiz(adaptedID, body.Count)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"questions": questions})
	})

	r.POST("/adapted/:id/blocks/:block_id/image-prompt", playLimiter, func(c *gin.Context) {
		adaptedID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adapted lesson ID"})
			return
		}
		prompt, err := lessonService.SuggestIllustration(adaptedID, c.Param("block_id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"prompt": prompt})
	})

	// Printable export.
	r.GET("/adapted/:id/pdf", func(c *gin.Context) {
		adaptedID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adapted lesson ID"})
			return
		}
		path, err := pdfService.GeneratePDF(adaptedID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.File(path)
	})

	// Start server on the host and port specified in the XML config.
	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	if err := r.Run(addr); err != nil {
		utilities.Error("server exited: %v", err)
	}
}

// respondServiceError maps service errors to HTTP statuses. A missing
// profile is a precondition failure the client can act on; a generation
// failure is an upstream problem.
func respondServiceError(c *gin.Context, err error) {
	var genFailure *llm.GenerationFailure
	switch {
	case errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrAdaptedLessonNotFound),
		errors.Is(err, service.ErrBlockNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrTrainingLogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrMissingProfile):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.As(err, &genFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "model": genFailure.Model})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("NEUROLEAP", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("NEUROLEAP API (v%s)\n\n", "1.0.0")
}
