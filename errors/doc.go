// Package errors provides the structured error type shared by reducekit
// packages: an AppError carrying a machine-readable code, optional details
// and a wrapped cause. Errors compare by code under errors.Is.
package errors
