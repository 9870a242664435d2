package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"insynchub/controller/auth"
	"insynchub/controller/document"
	"insynchub/controller/grievance"
	"insynchub/controller/project"
	"insynchub/controller/reminder"
	"insynchub/controller/transaction"
	"insynchub/controller/user"
	"insynchub/logger"
	"insynchub/middleware"
	"insynchub/model"
	"insynchub/repository"
	"insynchub/services"
	"insynchub/session"
	"insynchub/storage"

	recaptcha "cloud.google.com/go/recaptchaenterprise/v2/apiv1"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Services is everything the routes need.
type Services struct {
	Tokens        *services.TokenService
	Auth          *services.AuthService
	Users         *services.UserService
	Projects      *services.ProjectService
	Documents     *services.DocumentService
	Transactions  *services.TransactionService
	Grievances    *services.GrievanceService
	Notifications *services.NotificationService
	Captcha       *services.CaptchaService // nil when reCAPTCHA is not configured
}

// NewServices wires the services over one store, blob store and session
// store.
func NewServices(cfg *Config, store *repository.Store, blobs storage.BlobStore, sessions session.Store,
	verifier services.IDTokenVerifier, messenger services.Messenger, log *zap.Logger) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	tokens := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.RefreshSecret, sessions)
	users := services.NewUserService(store.Users, model.NewRoleTable(cfg.Roles))
	return &Services{
		Tokens:        tokens,
		Auth:          services.NewAuthService(verifier, users, tokens),
		Users:         users,
		Projects:      services.NewProjectService(store.Projects, store.Reminders, loc, log.Named("projects")),
		Documents:     services.NewDocumentService(store.Documents, blobs, log.Named("documents")),
		Transactions:  services.NewTransactionService(store.Transactions, loc),
		Grievances:    services.NewGrievanceService(store.Grievances, blobs, log.Named("grievances")),
		Notifications: services.NewNotificationService(store.Reminders, store.Users, messenger, loc, log.Named("reminders")),
	}, nil
}

func NewRouter(cfg *Config, svc *Services, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	if len(cfg.CORSOrigins) == 0 {
		router.Use(cors.Default())
	} else {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth.SessionController(router, svc.Auth, svc.Tokens)
	if svc.Captcha != nil {
		auth.CaptchaController(router, svc.Captcha)
	}
	project.ProjectController(router, svc.Projects, svc.Tokens)
	document.DocumentController(router, svc.Documents, svc.Tokens)
	transaction.TransactionController(router, svc.Transactions, svc.Tokens)
	grievance.GrievanceController(router, svc.Grievances, svc.Tokens)
	user.UserController(router, svc.Users, svc.Tokens)
	reminder.ReminderController(router, svc.Notifications, svc.Tokens, cfg.CronSecret)

	return router
}

func StartServer() {
	cfg, err := LoadConfig("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *Config, log *zap.Logger) error {
	ctx := context.Background()

	var verifier services.IDTokenVerifier
	fb, err := FBConnection(ctx, cfg)
	switch {
	case err == nil:
		defer fb.Close()
		verifier = fb.Auth
		log.Info("firebase initialized", zap.String("project", cfg.Firebase.ProjectID))
	case cfg.UsesFirebase():
		return err
	default:
		log.Warn("firebase unavailable; sign-in is disabled", zap.Error(err))
		fb = &FirebaseClients{}
		verifier = noIdentityProvider{cause: err}
	}

	var store *repository.Store
	switch cfg.StoreDriver {
	case "firestore":
		store = repository.NewFirestoreStore(fb.Firestore)
	case "mongo":
		client, err := MongoConnection(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		db := client.Database(cfg.Mongo.Database)
		if err := repository.CreateMongoIndexes(ctx, db); err != nil {
			log.Warn("failed to create mongodb indexes", zap.Error(err))
		}
		store = repository.NewMongoStore(db)
	default:
		log.Warn("using in-memory store; data is lost on restart")
		store = repository.NewMemoryStore()
	}
	log.Info("store ready", zap.String("driver", cfg.StoreDriver))

	var blobs storage.BlobStore
	switch cfg.BlobDriver {
	case "firebase":
		blobs = storage.NewFirebaseBucket(fb.Bucket, cfg.Firebase.StorageBucket)
	case "minio":
		blobs, err = storage.NewMinioStore(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
		if err != nil {
			return err
		}
	default:
		blobs = storage.NewMemoryStore()
	}
	log.Info("blob store ready", zap.String("driver", cfg.BlobDriver))

	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisStore.Close()
		sessions = redisStore
		log.Info("using redis for refresh sessions")
	} else {
		sessions = session.NewMemoryStore()
		log.Warn("using in-memory refresh sessions")
	}

	messenger := services.NewWhatsAppClient(cfg.WhatsApp.URL, cfg.WhatsApp.Token, cfg.WhatsApp.CountryCode)
	svc, err := NewServices(cfg, store, blobs, sessions, verifier, messenger, log)
	if err != nil {
		return err
	}

	if cfg.Recaptcha.ProjectID != "" && cfg.Recaptcha.SiteKey != "" {
		var opts []option.ClientOption
		if cfg.Firebase.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
		}
		client, err := recaptcha.NewClient(ctx, opts...)
		if err != nil {
			return fmt.Errorf("create recaptcha client: %w", err)
		}
		defer client.Close()
		svc.Captcha = services.NewCaptchaService(client, cfg.Recaptcha.ProjectID, cfg.Recaptcha.SiteKey, log.Named("captcha"))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	return nil
}
