// Package server exposes the scan pipeline over a JSON REST API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/reddyfit/bodyscan/internal/cache"
	"github.com/reddyfit/bodyscan/internal/classify"
	"github.com/reddyfit/bodyscan/internal/confidence"
	"github.com/reddyfit/bodyscan/internal/config"
	"github.com/reddyfit/bodyscan/internal/recommend"
	"github.com/reddyfit/bodyscan/internal/scan"
	"github.com/reddyfit/bodyscan/internal/storage"
	"github.com/reddyfit/bodyscan/internal/vision"
	"github.com/reddyfit/bodyscan/internal/whoop"
)

// Server wires storage, cache and the analysis pipeline behind HTTP
// handlers. Vision and cache are optional; a nil vision analyzer means
// scans must carry pre-extracted measurements, and a nil cache client
// means every read hits storage.
type Server struct {
	cfg         *config.Config
	store       storage.Store
	cache       *cache.Client
	vision      *vision.Analyzer
	whoop       *whoop.Client
	assembler   *scan.Assembler
	scorer      *confidence.Scorer
	recommender *recommend.Engine
	router      *mux.Router
	httpSrv     *http.Server
	log         *logrus.Logger
}

// New builds a server from configuration and already-opened clients
func New(cfg *config.Config, store storage.Store, cacheClient *cache.Client, visionAnalyzer *vision.Analyzer, whoopClient *whoop.Client, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}

	classifier := classify.NewClassifier(ruleConfidences(cfg.Analysis))
	scorer := confidence.NewScorer(scorerWeights(cfg.Confidence), cfg.Confidence.Threshold)

	s := &Server{
		cfg:         cfg,
		store:       store,
		cache:       cacheClient,
		vision:      visionAnalyzer,
		whoop:       whoopClient,
		assembler:   scan.NewAssembler(classifier, log),
		scorer:      scorer,
		recommender: recommend.NewEngine(),
		router:      mux.NewRouter(),
		log:         log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.requestLogger)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api/v1/users/{userID}").Subrouter()
	api.HandleFunc("/scans", s.handleCreateScan).Methods("POST")
	api.HandleFunc("/scans", s.handleScanHistory).Methods("GET")
	api.HandleFunc("/scans/latest", s.handleLatestScan).Methods("GET")
	api.HandleFunc("/scans/compare", s.handleCompareScans).Methods("GET")
	api.HandleFunc("/scans/{scanID}", s.handleGetScan).Methods("GET")
	api.HandleFunc("/profile", s.handleSaveProfile).Methods("PUT")
	api.HandleFunc("/profile", s.handleGetProfile).Methods("GET")
}

// Handler returns the route tree for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func ruleConfidences(a config.AnalysisConfig) classify.RuleConfidences {
	return classify.RuleConfidences{
		VTaperStrong: a.VTaperStrongConfidence,
		VTaper:       a.VTaperConfidence,
		Classic:      a.ClassicConfidence,
		Balanced:     a.BalancedConfidence,
		Rectangular:  a.RectangularConfidence,
		Apple:        a.AppleConfidence,
		Pear:         a.PearConfidence,
		Fallback:     a.FallbackConfidence,
	}
}

func scorerWeights(c config.ConfidenceConfig) confidence.Weights {
	return confidence.Weights{
		PhotoQuality: c.PhotoQualityWeight,
		Consistency:  c.ConsistencyWeight,
		AIResponse:   c.AIResponseWeight,
		Completeness: c.CompletenessWeight,
		Validation:   c.ValidationWeight,
	}
}
