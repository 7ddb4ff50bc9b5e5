package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/ChokeGuy/money-bridge/pkg/bank"
	pkg "github.com/ChokeGuy/money-bridge/pkg/config"
	"github.com/ChokeGuy/money-bridge/pkg/logger"
	"github.com/ChokeGuy/money-bridge/pkg/token"
	"github.com/ChokeGuy/money-bridge/pkg/token/jwt"
	"github.com/ChokeGuy/money-bridge/validations"
	"github.com/ChokeGuy/money-bridge/worker"
	"github.com/ChokeGuy/money-bridge/workflow"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

// SessionFactory turns a verified bearer token into the collaborator a workflow acts through
type SessionFactory func(token string) workflow.Session

// Server serves the transfer workflows over HTTP.
type Server struct {
	Config          *pkg.Config
	Router          *gin.Engine
	TokenMaker      token.Maker
	TaskDistributor worker.TaskDistributor
	Workflows       *workflow.Registry
	Banks           *bank.Catalog
	NewSession      SessionFactory
	HttpServer      *http.Server
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(
	config *pkg.Config,
	tokenMaker token.Maker,
	taskDistributor worker.TaskDistributor,
	workflows *workflow.Registry,
	banks *bank.Catalog,
	newSession SessionFactory,
) (*Server, error) {
	server := &Server{
		Config:          config,
		TokenMaker:      tokenMaker,
		TaskDistributor: taskDistributor,
		Workflows:       workflows,
		Banks:           banks,
		NewSession:      newSession,
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.HttpLogger())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validations.UseJSONNames(v)
		validations.Register(v, banks)
	}

	server.Router = router
	server.HttpServer = &http.Server{
		Addr:    config.HttpServerAddress,
		Handler: router,
	}
	return server, nil
}

// NewTestServer creates a new HTTP server for testing.
func NewTestServer(
	t *testing.T,
	cf *pkg.Config,
	taskDistributor worker.TaskDistributor,
	workflows *workflow.Registry,
	newSession SessionFactory,
) *Server {
	tokenMaker, err := jwt.NewJWTMaker(cf.SymetricKey)
	require.NoError(t, err)

	server, err := NewServer(cf, tokenMaker, taskDistributor, workflows, bank.Default(), newSession)
	require.NoError(t, err)

	return server
}

func (server *Server) Start() error {
	log.Info().Msgf("starting HTTP server on %s", server.Config.HttpServerAddress)
	if err := server.HttpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and then abandons every open workflow
func (server *Server) Stop(ctx context.Context) error {
	log.Info().Msg("gracefully stopping HTTP server")
	err := server.HttpServer.Shutdown(ctx)
	server.Workflows.Close()

	if err != nil {
		log.Error().Err(err).Msg("fail to stop HTTP server")
		return err
	}
	log.Info().Msg("HTTP server shutdown is complete")
	return nil
}
