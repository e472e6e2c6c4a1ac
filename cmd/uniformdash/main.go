package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"uniformdash/internal/api"
	"uniformdash/internal/config"
	"uniformdash/internal/dashboard"
	"uniformdash/internal/exporter"
	"uniformdash/internal/importer"
	"uniformdash/internal/logging"
	"uniformdash/internal/model"
	"uniformdash/internal/normalizer"
	"uniformdash/internal/responder"
	"uniformdash/internal/server"
	"uniformdash/internal/source"
	"uniformdash/internal/store"
)

var (
	configPath = flag.String("config", "", "配置文件路径 (默认: 可执行文件同目录下的 config.toml)")
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	sourceMode = flag.String("source", "", "仪表盘数据源: store | static | remote (覆盖配置文件)")
	syncFrom   = flag.String("sync-from", "", "启动时从上游问句接口同步明细到本地库")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *sourceMode != "" {
		cfg.Source.Mode = *sourceMode
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	logger, err := logging.New(cfg.Server.DevMode)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("uniformdash stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 确保数据目录存在
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logger.Info("data dir", zap.String("path", dir))

	catalog, err := config.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer st.Close()

	norm := normalizer.New(catalog)
	imp := importer.New(st, norm, logger.Named("importer"))

	if *syncFrom != "" {
		remote := source.NewHTTP(*syncFrom, cfg.Source.Timeout(), logger.Named("sync"))
		if _, err := imp.SyncSource(ctx, remote, *syncFrom); err != nil {
			return fmt.Errorf("sync from %s: %w", *syncFrom, err)
		}
	}
	if err := seedIfEmpty(ctx, cfg, catalog, st, imp); err != nil {
		return err
	}

	resp := responder.New(st, catalog, logger.Named("responder"))
	src := dashboardSource(cfg, catalog, resp, logger)
	_ = st.SetConfig(store.ConfigSourceMode, cfg.Source.Mode)

	h := api.NewHandler(api.Deps{
		Store:      st,
		Responder:  resp,
		Engine:     dashboard.NewEngine(src, catalog, logger.Named("dashboard")),
		Importer:   imp,
		Exporter:   exporter.New(catalog, logger.Named("exporter")),
		DataDir:    dir,
		SourceMode: cfg.Source.Mode,
		Logger:     logger.Named("api"),
	})
	srv := server.NewServer(cfg, h, logger)

	logger.Info("uniformdash starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("source", cfg.Source.Mode),
		zap.Bool("dev", cfg.Server.DevMode))
	return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
}

// seedIfEmpty 空库时以内置静态数据播种
func seedIfEmpty(ctx context.Context, cfg *config.AppConfig, catalog *model.Catalog, st *store.Store, imp *importer.Importer) error {
	if !cfg.Data.SeedOnEmpty {
		return nil
	}
	stats, err := st.Stats()
	if err != nil {
		return err
	}
	if !stats.Empty() {
		return nil
	}
	static := source.NewStatic(source.StaticOptions{Seed: cfg.Source.Seed, Employees: cfg.Source.Employees, Catalog: catalog})
	if _, err := imp.SyncSource(ctx, static, "seed"); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	return st.MarkSeeded(time.Now())
}

// dashboardSource 按配置选择仪表盘数据源
func dashboardSource(cfg *config.AppConfig, catalog *model.Catalog, resp *responder.Responder, logger *zap.Logger) source.Source {
	switch cfg.Source.Mode {
	case config.SourceStatic:
		return source.NewStatic(source.StaticOptions{Seed: cfg.Source.Seed, Employees: cfg.Source.Employees, Catalog: catalog})
	case config.SourceRemote:
		return source.NewHTTP(cfg.Source.RemoteURL, cfg.Source.Timeout(), logger.Named("source"))
	}
	return source.NewStoreSource(resp)
}
