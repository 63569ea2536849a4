// @title OpsNexus 后端 API
// @version 1.0
// @description DevOps 实战练习社区平台的后端服务器。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"opsnexus_backend/internal/app"
	"opsnexus_backend/internal/config"
	"opsnexus_backend/pkg/configwatcher"
	"opsnexus_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置文件热更新，回调里只做无需重启就能生效的调整
	go configwatcher.WatchConfig(*configDir+"/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("Config file reloaded")
		application.ApplyConfig(newCfg)
	})

	application.Run()
}
