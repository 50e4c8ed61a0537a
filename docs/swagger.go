package docs

// @title           Fleet Coordination API
// @version         1.0
// @description     Coordination service for a water-tanker driver union. Admins assign daily company trips over a fair driver rotation; drivers accept or decline their assignments; reports track monthly targets.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
