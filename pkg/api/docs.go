// Package api serves the event cache over HTTP.
// @title EventCache API
// @version 1.0
// @description REST API for querying contract events through the incremental event cache
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/EventCache
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /
// @schemes http https
package api
