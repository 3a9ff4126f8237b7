package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/speakband/speakband/internal/config"
	"github.com/speakband/speakband/internal/credits"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// FeedbackProcessor is the pipeline entry the server invokes per submission.
type FeedbackProcessor interface {
	Process(ctx context.Context, taskID, audioURL string) error
}

// CreditService covers the two boundary credit operations.
type CreditService interface {
	GrantFreeCredit(ctx context.Context, userID, displayName string) (credits.GrantResult, error)
	HandlePurchase(ctx context.Context, event credits.PurchaseEvent) (int, error)
}

type Server struct {
	cfg       *config.Config
	processor FeedbackProcessor
	credits   CreditService
	http      *http.Server
}

func New(cfg *config.Config, processor FeedbackProcessor, creditService CreditService) *Server {
	s := &Server{cfg: cfg, processor: processor, credits: creditService}
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

func (s *Server) router() *gin.Engine {
	if !s.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(), cors())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	fn := r.Group("/functions")
	fn.POST("/process-feedback", s.handleProcessFeedback)
	fn.POST("/grant-free-credit", s.handleGrantFreeCredit)
	fn.POST("/purchase-webhook", s.handlePurchaseWebhook)

	return r
}

func (s *Server) ListenAndServe() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
