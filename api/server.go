package api

import (
	"context"
	"fmt"
	"os"

	"github.com/Pierocul/DIDAWARDS/api/controllers"
	"github.com/Pierocul/DIDAWARDS/api/transport"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/mail"
	"github.com/Pierocul/DIDAWARDS/storage"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	store := s.openStore()
	mailer := s.newMailer()

	r := s.Routes(gin.DebugMode, store, mailer)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// Routes wires the session registry and every controller onto a new router.
// A nil mailer keeps the service up but answers session logins with 503.
func (s *Server) Routes(ginMode string, store *storage.Store, mailer voting.Mailer) *gin.Engine {
	r := transport.NewRouter(ginMode)

	emails := voting.EmailRule{Domain: s.config.Domain}
	registry := voting.NewRegistry(voting.Dependencies{
		Store:  store,
		Mailer: mailer,
		Settings: voting.Settings{
			Emails:        emails,
			MaxGeneration: s.config.MaxGeneration,
			AdminEmails:   s.config.AdminConfig.Emails,
		},
	}, s.config.SessionIdleTimeout)
	adminAuth := transport.AdminAuthMiddleware(s.config.AdminConfig.Token, registry)

	//Register controllers
	sessionController := controllers.NewSessionController(registry)
	sessionController.RegisterRoutes(r)
	categoryController := controllers.NewCategoryMetaController(store.Categories, adminAuth)
	categoryController.RegisterRoutes(r)
	candidateController := controllers.NewCandidateMetaController(store.Candidates, store.Categories, adminAuth)
	candidateController.RegisterRoutes(r)
	userController := controllers.NewUserAdminController(store.Users, emails, s.config.MaxGeneration, adminAuth)
	userController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(store, emails, adminAuth)
	adminController.RegisterRoutes(r)

	return r
}

func (s *Server) openStore() *storage.Store {
	if s.config.Backend == StorageBackendMemory {
		logging.Log.Warn("Using in-memory storage, data is lost on restart")
		store := storage.NewMemoryStore()
		if s.config.SeedExample {
			if err := storage.SeedExampleData(context.Background(), store); err != nil {
				logging.Log.Errorf("failed to seed example data: %v", err)
			}
		}
		return store
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	dynamoClient := dynamodb.NewFromConfig(cfg)
	return storage.NewDynamoStore(dynamoClient, storage.TableNames{
		Users:      s.config.TableNameUsers,
		Categories: s.config.TableNameCategories,
		Candidates: s.config.TableNameCandidates,
		Votes:      s.config.TableNameVotes,
	})
}

func (s *Server) newMailer() voting.Mailer {
	if s.config.Provider == EmailProviderLog {
		logging.Log.Warn("MAIL: codes are written to the log instead of being sent")
		return mail.LogMailer{}
	}

	client, err := mail.NewEmailJSClient(s.config.EmailJS)
	if err != nil {
		logging.Log.Errorf("MAIL: email service not configured: %v", err)
		return nil
	}
	return client
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
