package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/ortiurbani/orti-api/cmd/app"
)

// @title        Orti Urbani API
// @version      1.0
// @description  Gestione di orti urbani, lotti, associazioni e affidamenti.
//
// @contact.name   Orti Urbani
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
