// Package service contains the business operations.
//
// It sits between the handler and repository layers. Every operation
// borrows exactly one connection from the database.Provider, runs its
// repository statements on it in order and lets the provider release it.
package service
