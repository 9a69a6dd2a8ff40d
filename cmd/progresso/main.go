package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/config"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/logging"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/server"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/store"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/util"
)

var (
	port     = flag.Int("port", 0, "porta do servidor (config.toml tem prioridade quando define port)")
	devMode  = flag.Bool("dev", false, "modo de desenvolvimento")
	dataFile = flag.String("file", "", "planilha de dados (sobrescreve data.file)")
	initCfg  = flag.Bool("init", false, "gera config.toml padrão ao lado do executável e sai")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Progresso da Parada - Controle de Atividades")
	fmt.Println("==========================================")

	baseDir := config.BaseDir()

	if *initCfg {
		path := filepath.Join(baseDir, config.FileName)
		if err := config.WriteDefault(path); err != nil {
			log.Fatalf("falha ao gerar configuração: %v", err)
		}
		fmt.Printf("Configuração gerada: %s\n", path)
		return
	}

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("falha ao carregar configuração, usando padrão: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataFile != "" {
		cfg.Data.File = *dataFile
	}

	logger := logging.New(cfg.Log)
	if info.FromFile {
		logger.Info("config loaded", "path", info.Path)
	}

	// 加载历史（可选）
	var st *store.Store
	if cfg.History.Enabled {
		dbPath := config.ResolvePath(baseDir, cfg.History.DBPath)
		st, err = store.New(dbPath)
		if err != nil {
			logger.Error("load history disabled", "path", dbPath, "error", err)
			st = nil
		} else {
			defer st.Close()
		}
	}

	srv := server.NewServer(cfg, baseDir, st, logger)
	url := util.LocalURL(cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr(), "data", config.ResolvePath(baseDir, cfg.Data.File))
		errCh <- srv.Run()
	}()

	// 打开浏览器
	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Printf("Abrindo navegador: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Não foi possível abrir o navegador, acesse manualmente: %s\n", url)
		}
	} else {
		fmt.Printf("Acesse: %s\n", url)
	}

	fmt.Println("\nPressione Ctrl+C para encerrar...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	case <-quit:
	}

	fmt.Println("\nEncerrando...")
	timeout := cfg.Server.ShutdownTimeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
