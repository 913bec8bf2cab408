//go:build tools
// +build tools

// Package tools pins the linters and coverage tooling used in development.
package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/ory/go-acc"
	_ "golang.org/x/tools/cmd/goimports"
)
