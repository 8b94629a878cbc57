package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/rl1809/stockledger/internal/adapter/storage"
	"github.com/rl1809/stockledger/internal/config"
	"github.com/rl1809/stockledger/internal/core/record"
	"github.com/rl1809/stockledger/internal/core/service"
	"github.com/rl1809/stockledger/internal/logger"
	"github.com/rl1809/stockledger/internal/port"
)

// session holds everything one command invocation needs.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	store  port.TableStore
	mysql  *storage.MySQLAdapter
	svc    *service.ReconcileService

	closers []func() error
}

func (s *session) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Remote.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Remote.Timeout)
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

func openSession(c *cli.Context) (*session, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if b := c.String("backend"); b != "" {
		cfg.Backend = b
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("session", uuid.NewString()), zap.String("backend", cfg.Backend))

	s := &session{cfg: cfg, logger: log}
	ctx, cancel := s.opContext(c.Context)
	defer cancel()

	if err := s.openStore(ctx); err != nil {
		s.Close()
		return nil, err
	}

	journal, err := s.openJournal(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	parser := record.NewParser(cfg.Parser.MinInventoryFields)
	cache := service.NewInventoryCache(s.store, parser, cfg.Sheets.InventorySheet, log)
	recorder := service.NewSaleRecorder(s.store, parser, cfg.Sheets.SalesSheet, log)
	s.svc = service.NewReconcileService(cache, recorder, journal, log)

	return s, nil
}

func (s *session) openStore(ctx context.Context) error {
	cfg := s.cfg

	switch cfg.Backend {
	case config.BackendSheets:
		sheetsSvc, driveSvc, err := storage.NewGoogleServices(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			return err
		}
		id := cfg.Sheets.SpreadsheetID
		if id == "" {
			if id, err = storage.ResolveSpreadsheetID(ctx, driveSvc, cfg.Sheets.Spreadsheet); err != nil {
				return err
			}
		}
		s.logger.Info("connected to spreadsheet", zap.String("spreadsheet_id", id))
		s.store = storage.NewSheetsAdapter(sheetsSvc, id)

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return fmt.Errorf("open mysql: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping mysql: %w", err)
		}
		s.logger.Info("connected to mysql")

		s.mysql = storage.NewMySQLAdapter(db)
		if err := s.mysql.EnsureSchema(ctx); err != nil {
			return err
		}
		s.store = s.mysql

	case config.BackendMemory:
		mem := storage.NewMemoryAdapter()
		mem.CreateTable(cfg.Sheets.InventorySheet, nil)
		mem.CreateTable(cfg.Sheets.SalesSheet, nil)
		if err := storage.Seed(ctx, mem, cfg.Sheets.InventorySheet, cfg.Sheets.SalesSheet, sampleItems(), sampleSales(time.Now())); err != nil {
			return err
		}
		s.store = mem

	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return nil
}

func (s *session) openJournal(ctx context.Context) (port.DivergenceLog, error) {
	if s.cfg.Journal != config.JournalRedis {
		return storage.NewMemoryDivergenceLog(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     s.cfg.Redis.Addr,
		Password: s.cfg.Redis.Password,
		DB:       s.cfg.Redis.DB,
	})
	s.closers = append(s.closers, rdb.Close)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	s.logger.Info("connected to redis", zap.String("key", s.cfg.Redis.Key))

	return storage.NewRedisAdapter(rdb, s.cfg.Redis.Key), nil
}
