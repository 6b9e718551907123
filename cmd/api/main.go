// @title           Courseboard API
// @version         1.0
// @description     Course listing and review service with filterable, sortable course queries and aggregated review statistics.

// @contact.name   Courseboard Team
// @contact.email  support@courseboard.app

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/derin/courseboard/internal/server"
)

func main() {
	srv, err := server.NewServer()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}
