// Package models contains GORM row models for the tables the report engine reads.
//
// Rows mirror the stored shape, including nullable and legacy columns
// (stock vs stock_quantity, price vs unit_price). Each row's ToRecord method is the
// single normalisation step that produces the canonical records of the report domain.
package models
