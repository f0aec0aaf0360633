package main

import (
	"github.com/inkwell-ai/studygraph/backend/internal/server"
	"github.com/inkwell-ai/studygraph/backend/internal/util"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleBackend := console.NewConsoleBackend(console.ConsoleBackendParams{
		Debug: debug,
	})
	logger.Init(consoleBackend)

	server.Init()
}
