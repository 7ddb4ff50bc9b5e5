package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	wfapi "github.com/ChokeGuy/money-bridge/api/workflow"
	"github.com/ChokeGuy/money-bridge/ledger"
	"github.com/ChokeGuy/money-bridge/pkg/bank"
	pkg "github.com/ChokeGuy/money-bridge/pkg/config"
	"github.com/ChokeGuy/money-bridge/pkg/email"
	"github.com/ChokeGuy/money-bridge/pkg/logger"
	"github.com/ChokeGuy/money-bridge/pkg/token"
	"github.com/ChokeGuy/money-bridge/pkg/token/jwt"
	"github.com/ChokeGuy/money-bridge/pkg/token/paseto"
	sv "github.com/ChokeGuy/money-bridge/server/http"
	"github.com/ChokeGuy/money-bridge/worker"
	"github.com/ChokeGuy/money-bridge/workflow"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cf, err := pkg.LoadConfig("./")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger.Setup(cf.IsDevelopment())

	tokenMaker, err := newTokenMaker(cf)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token maker")
	}

	ledgerClient := ledger.NewClient(cf.LedgerApiUrl, cf.LedgerTimeout)
	banks := bank.Default()

	registry := workflow.NewDefaultRegistry(workflow.Dependencies{
		Gate:      workflow.NewValidationGate(banks),
		Submitter: ledgerClient,
		Pending:   workflow.NewPendingCoordinator(cf.PendingConfig(), ledgerClient),
		Hold:      workflow.NewComplianceHoldHandler(ledgerClient),
		Support:   cf.Support(),
	}).WithIdleTTL(cf.WorkflowIdleTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go registry.Run(ctx, time.Minute)

	redisOpt := asynq.RedisClientOpt{Addr: cf.RedisAddress}
	taskDistributor := worker.NewRedisTaskDistributor(redisOpt)

	mailer, err := newEmailSender(ctx, cf)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create email sender")
	}

	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, mailer, cf.SupportEmail)
	log.Info().Msg("start task processor")
	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("fail to start task processor")
	}

	server, err := sv.NewServer(&cf, tokenMaker, taskDistributor, registry, banks, func(accessToken string) workflow.Session {
		return ledgerClient.Session(accessToken)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create server")
	}

	//Routes
	wfapi.NewWorkflowHandler(server).MapRoutes()

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("fail to stop HTTP server")
	}
	taskProcessor.Shutdown()
}

func newTokenMaker(cf pkg.Config) (token.Maker, error) {
	if cf.TokenType == pkg.TokenTypePaseto {
		return paseto.NewPasetoMaker(cf.SymetricKey)
	}
	return jwt.NewJWTMaker(cf.SymetricKey)
}

func newEmailSender(ctx context.Context, cf pkg.Config) (email.EmailSender, error) {
	if cf.EmailProvider == pkg.EmailProviderSES {
		return email.NewSesEmailSender(ctx, email.SesConfig{
			Region:           cf.AWSRegion,
			AccessKeyID:      cf.AWSAcessKeyID,
			SecretAccessKey:  cf.AWSSecretKey,
			FromEmailAddress: cf.EmailSenderAddress,
		})
	}
	return email.NewGmailSender(cf.EmailSenderName, cf.EmailSenderAddress, cf.EmailSenderPassword), nil
}
