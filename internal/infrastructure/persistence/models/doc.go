// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer carries no ORM
// tags. Each model has a ToDomain method and a XModelFromDomain constructor.
//
// Table layout is owned by the SQL migrations; the gorm tags mirror it so that
// tests can AutoMigrate an equivalent schema on SQLite.
package models
