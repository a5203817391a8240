// Package hcl provides the concrete HCL implementation of the plan loading
// and data conversion interfaces defined in the `config` package. It parses
// plan files, translates them into the format-agnostic model in source
// order, and binds cty values to the Go input structs of runner modules.
package hcl
