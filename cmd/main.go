// cmd/main.go
package main

import (
	"staff-api/app"
)

// @title           Staff Management API
// @version         1.0
// @description     REST API for managing staff information with JWT authentication.

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
