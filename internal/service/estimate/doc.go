// Package estimate implements the estimate service.
//
// It owns estimate persistence for the rest of the application: the import
// orchestrator writes through it, and the API reads through it. The service
// layer contains pure business logic and depends on the Repository
// interface defined in repository.go. It never imports net/http or
// database/sql directly.
package estimate
