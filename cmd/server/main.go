package main

import (
	"os"

	"vivendi/backend/internal/app"
)

// @title           Vivendi Backend API
// @version         1.0
// @description     Multi-tenant safety measurement backend with Laudus ERP integration.
// @BasePath        /api
// @securityDefinitions.apikey  TokenAuth
// @in              header
// @name            x-auth-token
func main() {
	os.Exit(app.Run())
}
