// cmd/main.go
package main

import (
	"go-banner-api/app"

	_ "go-banner-api/docs"
)

// @title           Go-Banner API
// @version         1.0
// @description     User and banner management API with JWT authentication and role-based access control.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
